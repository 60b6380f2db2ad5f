package ledger

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// LockAssets locks the given asset rows for the rest of the transaction.
// Rows are locked in ascending id order so that two transfers touching the
// same pair of assets cannot deadlock. Duplicate ids are locked once.
func LockAssets(ctx context.Context, repo domain.AssetRepository, ids ...uuid.UUID) (map[uuid.UUID]*domain.Asset, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		return bytes.Compare(unique[i][:], unique[j][:]) < 0
	})

	locked := make(map[uuid.UUID]*domain.Asset, len(unique))
	for _, id := range unique {
		asset, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = asset
	}

	return locked, nil
}

// Record inserts op, links its hashtags and refreshes the balance of asset.
// The caller must hold the lock on asset.
func Record(ctx context.Context, repos domain.Repositories, asset *domain.Asset, op *domain.Operation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	op.Hashtags = domain.ExtractHashtags(op.Description)

	if err := op.Validate(); err != nil {
		return err
	}

	if err := repos.Operations.Create(ctx, op); err != nil {
		return err
	}

	if len(op.Hashtags) > 0 {
		if err := repos.Hashtags.Link(ctx, op.ID, op.Hashtags); err != nil {
			return err
		}
	}

	if op.IsChild() {
		return nil
	}
	return RefreshBalance(ctx, repos, asset)
}

// RefreshBalance recomputes the materialized balance of a balance-tracking
// asset from its top-level operations. Valuation assets are left untouched.
// The balance is always rebuilt from the sum, never adjusted incrementally.
func RefreshBalance(ctx context.Context, repos domain.Repositories, asset *domain.Asset) error {
	if !asset.Category.TracksBalance() {
		return nil
	}

	balance, err := repos.Operations.SumBalance(ctx, asset.ID)
	if err != nil {
		return err
	}

	asset.Balance = balance
	return repos.Assets.SetCurrentValuation(ctx, asset.ID, asset.CurrentValuation())
}
