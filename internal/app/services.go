package app

import (
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/asset"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/category"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/correction"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/investment"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/split"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/tagging"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/transfer"
)

// Services bundles the use cases exposed by the transports
type Services struct {
	Ledger     *ledger.LedgerService
	Split      *split.SplitService
	Investment *investment.InvestmentService
	Transfer   *transfer.TransferService
	Correction *correction.CorrectionService
	Assets     *asset.AssetService
	Hashtags   *tagging.HashtagService
	Categories *category.CategoryService
	Dashboard  *dashboard.DashboardService
}

// NewServices wires every use case to repos (for reads) and uow (for writes)
func NewServices(repos domain.Repositories, uow domain.UnitOfWork, logger logrus.FieldLogger) *Services {
	return &Services{
		Ledger:     ledger.NewLedgerService(repos, uow),
		Split:      split.NewSplitService(repos, uow),
		Investment: investment.NewInvestmentService(repos, uow),
		Transfer:   transfer.NewTransferService(uow, logger),
		Correction: correction.NewCorrectionService(uow),
		Assets:     asset.NewAssetService(repos, uow),
		Hashtags:   tagging.NewHashtagService(repos.Hashtags),
		Categories: category.NewCategoryService(repos.Categories),
		Dashboard:  dashboard.NewDashboardService(repos.Assets),
	}
}
