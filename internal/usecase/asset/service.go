package asset

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/investment"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
)

const (
	openingBalanceDescription = "Opening balance"
	openingPositionNotes      = "Opening position"
	initialValuationNotes     = "Initial valuation"
)

// Descriptor describes a new asset
type Descriptor struct {
	UserID        uuid.UUID
	AssetTypeID   uuid.UUID
	Name          string
	Description   string
	AccountNumber string
	Currency      string
	SortOrder     int
}

// UpdateInput replaces the descriptive fields of an asset. An empty
// Currency resets it to the default currency.
type UpdateInput struct {
	Name          string
	Description   string
	AccountNumber string
	Currency      string
	SortOrder     int
}

// CreateInput represents the input for creating an asset with an opening position.
// InitialValue is the opening balance of balance assets and the first
// valuation of every other asset. Quantity and AveragePurchasePrice open an
// investment position.
type CreateInput struct {
	Descriptor
	InitialValue         decimal.NullDecimal
	Quantity             decimal.NullDecimal
	AveragePurchasePrice decimal.NullDecimal
}

// AssetService handles asset lifecycle and valuations
type AssetService struct {
	Repos domain.Repositories
	UoW   domain.UnitOfWork
	Now   func() time.Time
}

// NewAssetService creates a new AssetService instance
func NewAssetService(repos domain.Repositories, uow domain.UnitOfWork) *AssetService {
	return &AssetService{
		Repos: repos,
		UoW:   uow,
		Now:   time.Now,
	}
}

// Provision creates the asset row described by d inside the caller's
// transaction. The opening value is left empty.
func Provision(ctx context.Context, repos domain.Repositories, d Descriptor) (*domain.Asset, error) {
	assetType, err := repos.AssetTypes.GetByID(ctx, d.AssetTypeID)
	if err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		ID:            uuid.New(),
		UserID:        d.UserID,
		AssetTypeID:   assetType.ID,
		Category:      assetType.Category,
		Name:          strings.TrimSpace(d.Name),
		Description:   d.Description,
		AccountNumber: d.AccountNumber,
		Currency:      normalizeCurrency(d.Currency),
		IsActive:      true,
		SortOrder:     d.SortOrder,
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := repos.Assets.Create(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// CreateAsset creates an asset and books its opening position so that the
// stored value stays derived from history: an opening operation for balance
// assets, a buy transaction for investments, a valuation for the rest.
func (s *AssetService) CreateAsset(ctx context.Context, input CreateInput) (*domain.Asset, error) {
	var created *domain.Asset
	today := ledger.Today(s.Now)

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		asset, err := Provision(ctx, repos, input.Descriptor)
		if err != nil {
			return err
		}

		if asset.Category != domain.AssetCategoryInvestment && (input.Quantity.Valid || input.AveragePurchasePrice.Valid) {
			return domain.NewInvalidArgument("only investment assets carry quantity and average purchase price")
		}

		switch {
		case asset.Category.TracksBalance():
			if input.InitialValue.Valid && !input.InitialValue.Decimal.IsZero() {
				amount := input.InitialValue.Decimal
				op := &domain.Operation{
					ID:          uuid.New(),
					Description: openingBalanceDescription,
					AssetID:     asset.ID,
					Amount:      amount,
					Type:        domain.OperationTypeFor(amount),
					Date:        today,
				}
				if err := ledger.Record(ctx, repos, asset, op); err != nil {
					return err
				}
			}

		case asset.Category == domain.AssetCategoryInvestment:
			if input.Quantity.Valid && input.Quantity.Decimal.IsPositive() {
				price := decimal.Zero
				if input.AveragePurchasePrice.Valid {
					price = input.AveragePurchasePrice.Decimal
				}
				tx, err := investment.NewTransaction(asset.ID, domain.InvestmentBuy, investment.TradeInput{
					Quantity:     input.Quantity.Decimal,
					PricePerUnit: price,
					Date:         today,
					Notes:        openingPositionNotes,
				}, s.Now)
				if err != nil {
					return err
				}
				if err := investment.Apply(ctx, repos, asset, tx); err != nil {
					return err
				}
			}
			if input.InitialValue.Valid {
				if err := recordValuation(ctx, repos, asset, input.InitialValue.Decimal, today, initialValuationNotes); err != nil {
					return err
				}
			}

		default:
			if input.InitialValue.Valid {
				if err := recordValuation(ctx, repos, asset, input.InitialValue.Decimal, today, initialValuationNotes); err != nil {
					return err
				}
			}
		}

		created = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetAsset retrieves an asset by its ID
func (s *AssetService) GetAsset(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	return s.Repos.Assets.GetByID(ctx, id)
}

// ListAssets retrieves assets, optionally filtered by category
func (s *AssetService) ListAssets(ctx context.Context, category domain.AssetCategory) ([]*domain.Asset, error) {
	if category != "" && !category.Valid() {
		return nil, domain.NewInvalidArgument("unknown asset category %q", category)
	}
	return s.Repos.Assets.List(ctx, category)
}

// ListAssetTypes returns the asset type registry
func (s *AssetService) ListAssetTypes(ctx context.Context) ([]*domain.AssetType, error) {
	return s.Repos.AssetTypes.List(ctx)
}

// DeleteAsset removes an asset with its operations, investment transactions
// and valuations
func (s *AssetService) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := ledger.LockAssets(ctx, repos.Assets, id); err != nil {
			return err
		}
		return repos.Assets.Delete(ctx, id)
	})
}

// UpdateAsset edits the descriptive fields of an asset. Its type, balance,
// holdings and valuation are never touched.
func (s *AssetService) UpdateAsset(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Asset, error) {
	var updated *domain.Asset

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		assets, err := ledger.LockAssets(ctx, repos.Assets, id)
		if err != nil {
			return err
		}
		asset := assets[id]

		asset.Name = strings.TrimSpace(input.Name)
		asset.Description = input.Description
		asset.AccountNumber = input.AccountNumber
		asset.Currency = normalizeCurrency(input.Currency)
		asset.SortOrder = input.SortOrder

		if err := asset.Validate(); err != nil {
			return err
		}
		if err := repos.Assets.Update(ctx, asset); err != nil {
			return err
		}

		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return domain.DefaultCurrency
	}
	return currency
}

// SetActive activates or deactivates an asset
func (s *AssetService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Asset, error) {
	asset, err := s.Repos.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Repos.Assets.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	asset.IsActive = active
	return asset, nil
}

// RecordValuation stores a mark-to-market value. The latest recorded
// valuation always overwrites the asset's current valuation.
func (s *AssetService) RecordValuation(ctx context.Context, assetID uuid.UUID, value decimal.Decimal, date time.Time, notes string) (*domain.AssetValuation, error) {
	if date.IsZero() {
		date = ledger.Today(s.Now)
	}

	var valuation *domain.AssetValuation
	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		assets, err := ledger.LockAssets(ctx, repos.Assets, assetID)
		if err != nil {
			return err
		}
		asset := assets[assetID]

		if asset.Category.TracksBalance() {
			return domain.NewInvalidArgument("asset %s tracks a balance; use a balance correction instead", assetID)
		}

		valuation = &domain.AssetValuation{
			ID:      uuid.New(),
			AssetID: assetID,
			Date:    date,
			Value:   value,
			Notes:   notes,
		}
		return Revalue(ctx, repos, asset, valuation)
	})
	if err != nil {
		return nil, err
	}

	return valuation, nil
}

// Revalue inserts v and overwrites the asset's valuation with it.
// The caller must hold the lock on asset.
func Revalue(ctx context.Context, repos domain.Repositories, asset *domain.Asset, v *domain.AssetValuation) error {
	if err := v.Validate(); err != nil {
		return err
	}

	if err := repos.Valuations.Add(ctx, v); err != nil {
		return err
	}

	asset.Valuation = decimal.NewNullDecimal(v.Value)
	return repos.Assets.SetCurrentValuation(ctx, asset.ID, asset.CurrentValuation())
}

func recordValuation(ctx context.Context, repos domain.Repositories, asset *domain.Asset, value decimal.Decimal, date time.Time, notes string) error {
	return Revalue(ctx, repos, asset, &domain.AssetValuation{
		ID:      uuid.New(),
		AssetID: asset.ID,
		Date:    date,
		Value:   value,
		Notes:   notes,
	})
}

// ListValuations returns the asset's valuations, newest first
func (s *AssetService) ListValuations(ctx context.Context, assetID uuid.UUID) ([]*domain.AssetValuation, error) {
	if _, err := s.Repos.Assets.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return s.Repos.Valuations.ListByAsset(ctx, assetID)
}

// DeleteValuation removes a valuation. The asset falls back to the newest
// remaining valuation, or to no valuation at all.
func (s *AssetService) DeleteValuation(ctx context.Context, id uuid.UUID) error {
	return s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		v, err := repos.Valuations.GetByID(ctx, id)
		if err != nil {
			return err
		}

		assets, err := ledger.LockAssets(ctx, repos.Assets, v.AssetID)
		if err != nil {
			return err
		}
		asset := assets[v.AssetID]

		if err := repos.Valuations.Delete(ctx, id); err != nil {
			return err
		}

		remaining, err := repos.Valuations.ListByAsset(ctx, v.AssetID)
		if err != nil {
			return err
		}

		asset.Valuation = decimal.NullDecimal{}
		if len(remaining) > 0 {
			asset.Valuation = decimal.NewNullDecimal(remaining[0].Value)
		}
		return repos.Assets.SetCurrentValuation(ctx, asset.ID, asset.CurrentValuation())
	})
}
