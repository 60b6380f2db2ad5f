package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// NetWorthResult represents the calculated net worth
type NetWorthResult struct {
	Total       decimal.Decimal
	Liquidity   decimal.Decimal
	Investments decimal.Decimal
	Property    decimal.Decimal
	Liabilities decimal.Decimal
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	AssetRepo domain.AssetRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(assetRepo domain.AssetRepository) *DashboardService {
	return &DashboardService{
		AssetRepo: assetRepo,
	}
}

// GetNetWorth calculates the total net worth over active assets
// Logic:
//   - Liquidity: Sum of liquid asset balances
//   - Investments: Latest valuation, or quantity * average price when never valued
//   - Property: Latest valuation of property, vehicle and valuable assets
//   - Liabilities: Sum of liability balances (negative while debt is owed)
//   - Total: Liquidity + Investments + Property + Liabilities
func (s *DashboardService) GetNetWorth(ctx context.Context) (*NetWorthResult, error) {
	assets, err := s.AssetRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	result := &NetWorthResult{
		Liquidity:   decimal.Zero,
		Investments: decimal.Zero,
		Property:    decimal.Zero,
		Liabilities: decimal.Zero,
	}

	for _, asset := range assets {
		if !asset.IsActive {
			continue
		}

		switch asset.Category {
		case domain.AssetCategoryLiquid:
			result.Liquidity = result.Liquidity.Add(asset.Balance)
		case domain.AssetCategoryLiability:
			result.Liabilities = result.Liabilities.Add(asset.Balance)
		case domain.AssetCategoryInvestment:
			result.Investments = result.Investments.Add(investmentValue(asset))
		default:
			if asset.Valuation.Valid {
				result.Property = result.Property.Add(asset.Valuation.Decimal)
			}
		}
	}

	result.Total = result.Liquidity.Add(result.Investments).Add(result.Property).Add(result.Liabilities)
	return result, nil
}

func investmentValue(asset *domain.Asset) decimal.Decimal {
	if asset.Valuation.Valid {
		return asset.Valuation.Decimal
	}
	if asset.Quantity.Valid && asset.AveragePurchasePrice.Valid {
		return asset.Quantity.Decimal.Mul(asset.AveragePurchasePrice.Decimal)
	}
	return decimal.Zero
}
