package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// OperationInput represents the input for creating or updating an operation.
// Amount may be given as a magnitude; the stored sign always follows Type.
type OperationInput struct {
	AssetID     uuid.UUID
	Amount      decimal.Decimal
	Type        domain.OperationType
	Date        time.Time
	CategoryID  *uuid.UUID
	Description string
}

// LedgerService handles operation bookkeeping against asset balances
type LedgerService struct {
	Repos domain.Repositories
	UoW   domain.UnitOfWork
	Now   func() time.Time
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(repos domain.Repositories, uow domain.UnitOfWork) *LedgerService {
	return &LedgerService{
		Repos: repos,
		UoW:   uow,
		Now:   time.Now,
	}
}

// CreateOperation records a standalone operation and refreshes the asset balance
func (s *LedgerService) CreateOperation(ctx context.Context, input OperationInput) (*domain.Operation, error) {
	op := &domain.Operation{
		ID:          uuid.New(),
		CategoryID:  input.CategoryID,
		Description: input.Description,
		AssetID:     input.AssetID,
		Amount:      domain.SignedAmount(input.Type, input.Amount),
		Type:        input.Type,
		Date:        dateOrToday(input.Date, s.Now),
	}

	// Validate before opening a transaction
	if err := op.Validate(); err != nil {
		return nil, err
	}

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		assets, err := LockAssets(ctx, repos.Assets, op.AssetID)
		if err != nil {
			return err
		}
		return Record(ctx, repos, assets[op.AssetID], op)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// GetOperation retrieves one operation, including split children
func (s *LedgerService) GetOperation(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	return s.Repos.Operations.GetByID(ctx, id)
}

// UpdateOperation overwrites an operation and relinks its hashtags.
// Split parents and split children only accept category and description
// changes; their amount, type, asset and date are tied to the split.
func (s *LedgerService) UpdateOperation(ctx context.Context, id uuid.UUID, input OperationInput) (*domain.Operation, error) {
	var updated *domain.Operation

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		current, err := repos.Operations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		next.CategoryID = input.CategoryID
		next.Description = input.Description
		next.AssetID = input.AssetID
		next.Type = input.Type
		next.Amount = domain.SignedAmount(input.Type, input.Amount)
		next.Date = dateOrToday(input.Date, s.Now)
		next.Hashtags = domain.ExtractHashtags(input.Description)

		if (current.IsSplit || current.IsChild()) && structuralChange(current, &next) {
			return domain.NewInvalidState("operation %s is part of a split; unsplit it before changing amount, type, asset or date", id)
		}

		if err := next.Validate(); err != nil {
			return err
		}

		assets, err := LockAssets(ctx, repos.Assets, current.AssetID, next.AssetID)
		if err != nil {
			return err
		}

		if err := repos.Operations.Update(ctx, &next); err != nil {
			return err
		}

		// Relink hashtags from the new description
		if err := repos.Hashtags.Unlink(ctx, id); err != nil {
			return err
		}
		if len(next.Hashtags) > 0 {
			if err := repos.Hashtags.Link(ctx, id, next.Hashtags); err != nil {
				return err
			}
		}

		for _, asset := range assets {
			if err := RefreshBalance(ctx, repos, asset); err != nil {
				return err
			}
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteOperation removes an operation. Deleting a split parent removes its
// children; deleting one leg of a transfer clears the partner's link.
// Split children cannot be deleted on their own.
func (s *LedgerService) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	return s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		op, err := repos.Operations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if op.IsChild() {
			return domain.NewInvalidState("operation %s is a split child; unsplit or delete its parent", id)
		}

		assets, err := LockAssets(ctx, repos.Assets, op.AssetID)
		if err != nil {
			return err
		}

		if err := repos.Operations.Delete(ctx, id); err != nil {
			return err
		}

		return RefreshBalance(ctx, repos, assets[op.AssetID])
	})
}

// GetBalance returns Σ amount of the asset's top-level operations
func (s *LedgerService) GetBalance(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	// Verify asset exists
	if _, err := s.Repos.Assets.GetByID(ctx, assetID); err != nil {
		return decimal.Zero, err
	}

	return s.Repos.Operations.SumBalance(ctx, assetID)
}

// ListOperations returns a page of top-level operations and the total count
func (s *LedgerService) ListOperations(ctx context.Context, filter domain.OperationFilter) ([]*domain.Operation, int, error) {
	if filter.Limit <= 0 {
		return nil, 0, domain.NewInvalidArgument("limit must be positive")
	}
	if filter.Offset < 0 {
		return nil, 0, domain.NewInvalidArgument("offset must be non-negative")
	}

	total, err := s.Repos.Operations.Count(ctx, filter.AssetID)
	if err != nil {
		return nil, 0, err
	}

	ops, err := s.Repos.Operations.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ops, total, nil
}

func structuralChange(a, b *domain.Operation) bool {
	return a.AssetID != b.AssetID ||
		a.Type != b.Type ||
		!a.Amount.Equal(b.Amount) ||
		!a.Date.Equal(b.Date)
}

func dateOrToday(d time.Time, now func() time.Time) time.Time {
	if d.IsZero() {
		return Today(now)
	}
	return d
}

// Today truncates now() to a calendar date in UTC
func Today(now func() time.Time) time.Time {
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
