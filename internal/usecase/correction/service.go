package correction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/category"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
)

const description = "Balance correction"

// CorrectionService reconciles a liquid asset against a stated balance
type CorrectionService struct {
	UoW domain.UnitOfWork
	Now func() time.Time
}

// NewCorrectionService creates a new CorrectionService instance
func NewCorrectionService(uow domain.UnitOfWork) *CorrectionService {
	return &CorrectionService{
		UoW: uow,
		Now: time.Now,
	}
}

// CorrectBalance books a single operation dated today that moves the asset's
// balance to target. Nothing is written when the balance already matches.
// Returns the asset as stored after the write.
func (s *CorrectionService) CorrectBalance(ctx context.Context, assetID uuid.UUID, target decimal.Decimal) (*domain.Asset, error) {
	var corrected *domain.Asset

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		assets, err := ledger.LockAssets(ctx, repos.Assets, assetID)
		if err != nil {
			return err
		}
		asset := assets[assetID]

		if asset.Category != domain.AssetCategoryLiquid {
			return domain.NewForbidden("balance correction is only allowed on liquid assets")
		}

		difference := target.Sub(asset.Balance)
		if difference.IsZero() {
			corrected = asset
			return nil
		}

		opType := domain.OperationTypeFor(difference)
		c, err := category.EnsureSystem(ctx, repos.Categories, domain.CorrectionRoleFor(opType))
		if err != nil {
			return err
		}

		op := &domain.Operation{
			ID:          uuid.New(),
			CategoryID:  &c.ID,
			Description: description,
			AssetID:     asset.ID,
			Amount:      difference,
			Type:        opType,
			Date:        ledger.Today(s.Now),
		}
		if err := ledger.Record(ctx, repos, asset, op); err != nil {
			return err
		}

		corrected, err = repos.Assets.GetByID(ctx, asset.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return corrected, nil
}
