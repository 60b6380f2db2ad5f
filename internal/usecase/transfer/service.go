package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/asset"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/category"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/investment"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
	"github.com/sirupsen/logrus"
)

const initialValuationNotes = "Initial valuation at purchase"

// TransferService moves value out of a liquid asset into another asset as
// one atomic unit
type TransferService struct {
	UoW    domain.UnitOfWork
	Logger logrus.FieldLogger
	Now    func() time.Time
}

// NewTransferService creates a new TransferService instance
func NewTransferService(uow domain.UnitOfWork, logger logrus.FieldLogger) *TransferService {
	return &TransferService{
		UoW:    uow,
		Logger: logger,
		Now:    time.Now,
	}
}

// transfer carries the state of one Transfer call inside its transaction
type transfer struct {
	req    *Request
	repos  domain.Repositories
	from   *domain.Asset
	to     *domain.Asset
	date   time.Time
	result *Result
}

// Transfer executes the request. Either every row of the transfer is
// written or none is.
func (s *TransferService) Transfer(ctx context.Context, req Request) (*Result, error) {
	// Fail fast before opening a transaction
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := s.Logger.WithFields(logrus.Fields{
		"transfer_type": req.Type,
		"from_asset_id": req.FromAssetID,
		"amount":        req.Amount.String(),
	})

	date := req.Date
	if date.IsZero() {
		date = ledger.Today(s.Now)
	}

	var result *Result
	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		t := &transfer{req: &req, repos: repos, date: date, result: &Result{}}
		if err := t.lock(ctx); err != nil {
			return err
		}

		var err error
		switch req.Type {
		case LiquidToLiquid:
			err = t.liquidToLiquid(ctx)
		case LiquidToInvestment:
			err = t.liquidToInvestment(ctx)
		case LiquidToProperty, LiquidToVehicle, LiquidToValuable:
			err = t.liquidToValuationAsset(ctx)
		case LiquidToLiability:
			err = t.liquidToLiability(ctx)
		}
		if err != nil {
			return err
		}

		result = t.result
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("transfer rolled back")
		return nil, err
	}

	log.WithField("from_operation_id", result.FromOperationID).Info("transfer committed")
	return result, nil
}

// lock locks the source and, when given, the destination asset and checks
// their categories
func (t *transfer) lock(ctx context.Context) error {
	ids := []uuid.UUID{t.req.FromAssetID}
	if t.req.ToAssetID != nil {
		ids = append(ids, *t.req.ToAssetID)
	}

	assets, err := ledger.LockAssets(ctx, t.repos.Assets, ids...)
	if err != nil {
		return err
	}

	t.from = assets[t.req.FromAssetID]
	if t.from.Category != domain.AssetCategoryLiquid {
		return domain.NewInvalidArgument("source asset %s is not a liquid asset", t.from.ID)
	}

	if t.req.ToAssetID != nil {
		t.to = assets[*t.req.ToAssetID]
		if want := t.req.Type.destinationCategory(); t.to.Category != want {
			return domain.NewInvalidArgument("destination asset %s is not a %s asset", t.to.ID, want)
		}
	}

	return nil
}

func (t *transfer) liquidToLiquid(ctx context.Context) error {
	return t.linkedPair(ctx,
		fmt.Sprintf("Transfer to asset %s", t.to.ID),
		fmt.Sprintf("Transfer from asset %s", t.from.ID))
}

func (t *transfer) liquidToInvestment(ctx context.Context) error {
	description := ""
	if t.to == nil {
		if err := t.provision(ctx); err != nil {
			return err
		}
		description = fmt.Sprintf("Investment purchase: %s", t.to.Name)
	} else {
		description = fmt.Sprintf("Investment purchase %s", t.to.ID)
	}

	quantity := t.req.InvestmentQuantity.Decimal
	tx := &domain.InvestmentTransaction{
		ID:           uuid.New(),
		AssetID:      t.to.ID,
		Type:         domain.InvestmentBuy,
		Quantity:     quantity,
		PricePerUnit: t.req.Amount.Div(quantity).Round(domain.QuantityScale),
		TotalValue:   t.req.Amount,
		Date:         t.date,
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	if err := investment.Apply(ctx, t.repos, t.to, tx); err != nil {
		return err
	}
	t.result.InvestmentTransactionID = &tx.ID

	_, err := t.outgoing(ctx, description)
	return err
}

func (t *transfer) liquidToValuationAsset(ctx context.Context) error {
	if err := t.provision(ctx); err != nil {
		return err
	}

	valuation := &domain.AssetValuation{
		ID:      uuid.New(),
		AssetID: t.to.ID,
		Date:    t.date,
		Value:   t.req.Amount,
		Notes:   initialValuationNotes,
	}
	if err := asset.Revalue(ctx, t.repos, t.to, valuation); err != nil {
		return err
	}

	_, err := t.outgoing(ctx, fmt.Sprintf("Purchase: %s", t.to.Name))
	return err
}

func (t *transfer) liquidToLiability(ctx context.Context) error {
	err := t.linkedPair(ctx,
		fmt.Sprintf("Liability payment %s", t.to.ID),
		fmt.Sprintf("Payment from asset %s", t.from.ID))
	if err != nil {
		return err
	}

	if !t.req.InterestAmount.Valid || !t.req.InterestAmount.Decimal.IsPositive() {
		return nil
	}

	interest, err := category.EnsureSystem(ctx, t.repos.Categories, domain.SystemCategoryDebtInterest)
	if err != nil {
		return err
	}

	op := &domain.Operation{
		ID:          uuid.New(),
		CategoryID:  &interest.ID,
		Description: fmt.Sprintf("Interest on liability %s", t.to.ID),
		AssetID:     t.from.ID,
		Amount:      domain.SignedAmount(domain.OperationTypeExpense, t.req.InterestAmount.Decimal),
		Type:        domain.OperationTypeExpense,
		Date:        t.date,
	}
	if err := ledger.Record(ctx, t.repos, t.from, op); err != nil {
		return err
	}

	t.result.InterestOperationID = &op.ID
	return nil
}

// provision creates the asset described by NewAsset, owned by the source's user
func (t *transfer) provision(ctx context.Context) error {
	d := *t.req.NewAsset
	if d.UserID == uuid.Nil {
		d.UserID = t.from.UserID
	}

	created, err := asset.Provision(ctx, t.repos, d)
	if err != nil {
		return err
	}

	if want := t.req.Type.destinationCategory(); created.Category != want {
		return domain.NewInvalidArgument("asset type %s is not a %s asset type", d.AssetTypeID, want)
	}

	t.to = created
	t.result.NewAssetID = &created.ID
	return nil
}

// outgoing books the expense leg on the source
func (t *transfer) outgoing(ctx context.Context, fallback string) (*domain.Operation, error) {
	op := &domain.Operation{
		ID:          uuid.New(),
		CategoryID:  t.req.CategoryID,
		Description: t.describe(fallback),
		AssetID:     t.from.ID,
		Amount:      domain.SignedAmount(domain.OperationTypeExpense, t.req.Amount),
		Type:        domain.OperationTypeExpense,
		Date:        t.date,
	}

	if err := ledger.Record(ctx, t.repos, t.from, op); err != nil {
		return nil, err
	}

	t.result.FromOperationID = op.ID
	return op, nil
}

// linkedPair books an expense on the source and an income on the destination
// and points each leg at the other
func (t *transfer) linkedPair(ctx context.Context, fromFallback, toFallback string) error {
	from, err := t.outgoing(ctx, fromFallback)
	if err != nil {
		return err
	}

	to := &domain.Operation{
		ID:          uuid.New(),
		CategoryID:  t.req.CategoryID,
		Description: t.describe(toFallback),
		AssetID:     t.to.ID,
		Amount:      domain.SignedAmount(domain.OperationTypeIncome, t.req.Amount),
		Type:        domain.OperationTypeIncome,
		Date:        t.date,
	}
	if err := ledger.Record(ctx, t.repos, t.to, to); err != nil {
		return err
	}

	// Both rows must exist before they can reference each other
	if err := t.repos.Operations.SetLinked(ctx, from.ID, to.ID); err != nil {
		return err
	}
	if err := t.repos.Operations.SetLinked(ctx, to.ID, from.ID); err != nil {
		return err
	}
	from.LinkedOperationID = &to.ID
	to.LinkedOperationID = &from.ID

	if err := domain.ValidateTransferPair(from, to); err != nil {
		return err
	}

	t.result.ToOperationID = &to.ID
	return nil
}

func (t *transfer) describe(fallback string) string {
	if t.req.Description != "" {
		return t.req.Description
	}
	return fallback
}
