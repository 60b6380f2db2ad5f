package investment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
)

// TradeInput represents one buy or sell of an investment asset.
// Either PricePerUnit or TotalValue may be omitted; the other is derived
// from Quantity.
type TradeInput struct {
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	TotalValue   decimal.Decimal
	Date         time.Time
	Notes        string
}

// InvestmentService tracks quantity and weighted-average cost of investment assets
type InvestmentService struct {
	Repos domain.Repositories
	UoW   domain.UnitOfWork
	Now   func() time.Time
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(repos domain.Repositories, uow domain.UnitOfWork) *InvestmentService {
	return &InvestmentService{
		Repos: repos,
		UoW:   uow,
		Now:   time.Now,
	}
}

// RecordBuy records a purchase and recomputes the asset's holdings
func (s *InvestmentService) RecordBuy(ctx context.Context, assetID uuid.UUID, input TradeInput) (*domain.InvestmentTransaction, error) {
	return s.record(ctx, assetID, domain.InvestmentBuy, input)
}

// RecordSell records a sale and recomputes the asset's holdings.
// Selling more than the current quantity is rejected.
func (s *InvestmentService) RecordSell(ctx context.Context, assetID uuid.UUID, input TradeInput) (*domain.InvestmentTransaction, error) {
	return s.record(ctx, assetID, domain.InvestmentSell, input)
}

func (s *InvestmentService) record(ctx context.Context, assetID uuid.UUID, txType domain.InvestmentTransactionType, input TradeInput) (*domain.InvestmentTransaction, error) {
	tx, err := NewTransaction(assetID, txType, input, s.Now)
	if err != nil {
		return nil, err
	}

	err = s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		assets, err := ledger.LockAssets(ctx, repos.Assets, assetID)
		if err != nil {
			return err
		}
		asset := assets[assetID]

		if txType == domain.InvestmentSell {
			held := decimal.Zero
			if asset.Quantity.Valid {
				held = asset.Quantity.Decimal
			}
			if tx.Quantity.GreaterThan(held) {
				return domain.NewInvalidState("cannot sell %s units, only %s held", tx.Quantity, held)
			}
		}

		return Apply(ctx, repos, asset, tx)
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// NewTransaction builds a validated investment transaction from input
func NewTransaction(assetID uuid.UUID, txType domain.InvestmentTransactionType, input TradeInput, now func() time.Time) (*domain.InvestmentTransaction, error) {
	tx := &domain.InvestmentTransaction{
		ID:           uuid.New(),
		AssetID:      assetID,
		Type:         txType,
		Quantity:     input.Quantity,
		PricePerUnit: input.PricePerUnit,
		TotalValue:   input.TotalValue,
		Date:         input.Date,
		Notes:        input.Notes,
	}

	if tx.Date.IsZero() {
		tx.Date = ledger.Today(now)
	}

	if !tx.Quantity.IsPositive() {
		return nil, domain.NewInvalidArgument("investment quantity must be positive")
	}

	// Fill in whichever of price and total was omitted
	// Derived values are rounded to their stored precision
	switch {
	case tx.TotalValue.IsZero() && !tx.PricePerUnit.IsZero():
		tx.TotalValue = tx.PricePerUnit.Mul(tx.Quantity).Round(domain.MoneyScale)
	case tx.PricePerUnit.IsZero() && !tx.TotalValue.IsZero():
		tx.PricePerUnit = tx.TotalValue.Div(tx.Quantity).Round(domain.QuantityScale)
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// Apply inserts tx and rebuilds the asset's holdings from its full history.
// The caller must hold the lock on asset.
func Apply(ctx context.Context, repos domain.Repositories, asset *domain.Asset, tx *domain.InvestmentTransaction) error {
	if asset.Category != domain.AssetCategoryInvestment {
		return domain.NewInvalidArgument("asset %s is not an investment asset", asset.ID)
	}

	if err := repos.InvestmentTransactions.Create(ctx, tx); err != nil {
		return err
	}

	return Recompute(ctx, repos, asset)
}

// Recompute rebuilds quantity and average purchase price from every
// remaining transaction of the asset
func Recompute(ctx context.Context, repos domain.Repositories, asset *domain.Asset) error {
	txs, err := repos.InvestmentTransactions.ListByAsset(ctx, asset.ID)
	if err != nil {
		return err
	}

	holdings := domain.RecomputeHoldings(txs)
	if err := repos.Assets.SetHoldings(ctx, asset.ID, holdings); err != nil {
		return err
	}

	asset.Quantity = holdings.Quantity
	asset.AveragePurchasePrice = holdings.AveragePurchasePrice
	return nil
}

// DeleteTransaction removes a transaction and recomputes the asset's holdings
func (s *InvestmentService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		tx, err := repos.InvestmentTransactions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		assets, err := ledger.LockAssets(ctx, repos.Assets, tx.AssetID)
		if err != nil {
			return err
		}

		if err := repos.InvestmentTransactions.Delete(ctx, id); err != nil {
			return err
		}

		return Recompute(ctx, repos, assets[tx.AssetID])
	})
}

// ListTransactions returns the asset's transactions, newest first
func (s *InvestmentService) ListTransactions(ctx context.Context, assetID uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	if _, err := s.Repos.Assets.GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	return s.Repos.InvestmentTransactions.ListByAsset(ctx, assetID)
}

// UnrealizedGain calculates the profit/loss of an investment asset
// Logic: Gain = Valuation - CostBasis
// CostBasis = quantity * average_purchase_price
// Valuation = latest recorded valuation
func (s *InvestmentService) UnrealizedGain(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	asset, err := s.Repos.Assets.GetByID(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	// Without a valuation or cost basis there is nothing to compare
	if !asset.Valuation.Valid || !asset.Quantity.Valid || !asset.AveragePurchasePrice.Valid {
		return decimal.Zero, nil
	}

	costBasis := asset.Quantity.Decimal.Mul(asset.AveragePurchasePrice.Decimal)
	return asset.Valuation.Decimal.Sub(costBasis), nil
}
