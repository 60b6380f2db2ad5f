package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		asset   Asset
		wantErr bool
		errMsg  string
	}{
		{
			name:  "Liquid asset should pass",
			asset: Asset{ID: uuid.New(), Name: "Checking", Category: AssetCategoryLiquid, Currency: "PLN"},
		},
		{
			name: "Investment with holdings should pass",
			asset: Asset{
				ID:                   uuid.New(),
				Name:                 "ACME",
				Category:             AssetCategoryInvestment,
				Currency:             "USD",
				Quantity:             decimal.NewNullDecimal(decimal.NewFromInt(10)),
				AveragePurchasePrice: decimal.NewNullDecimal(decimal.NewFromInt(100)),
			},
		},
		{
			name:    "Blank name should fail",
			asset:   Asset{ID: uuid.New(), Name: "   ", Category: AssetCategoryLiquid, Currency: "PLN"},
			wantErr: true,
			errMsg:  "asset name cannot be empty",
		},
		{
			name:    "Unknown category should fail",
			asset:   Asset{ID: uuid.New(), Name: "Gold", Category: "commodity", Currency: "PLN"},
			wantErr: true,
			errMsg:  "asset category is invalid",
		},
		{
			name:    "Unknown currency should fail",
			asset:   Asset{ID: uuid.New(), Name: "Checking", Category: AssetCategoryLiquid, Currency: "XYZ"},
			wantErr: true,
			errMsg:  "asset currency is not a known currency code",
		},
		{
			name: "Holdings on a liquid asset should fail",
			asset: Asset{
				ID:       uuid.New(),
				Name:     "Checking",
				Category: AssetCategoryLiquid,
				Currency: "PLN",
				Quantity: decimal.NewNullDecimal(decimal.NewFromInt(1)),
			},
			wantErr: true,
			errMsg:  "only investment assets carry quantity and average purchase price",
		},
		{
			name: "Negative quantity should fail",
			asset: Asset{
				ID:       uuid.New(),
				Name:     "ACME",
				Category: AssetCategoryInvestment,
				Currency: "PLN",
				Quantity: decimal.NewNullDecimal(decimal.NewFromInt(-1)),
			},
			wantErr: true,
			errMsg:  "asset quantity cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, KindInvalidArgument, KindOf(err))
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetCategory_TracksBalance(t *testing.T) {
	tracking := map[AssetCategory]bool{
		AssetCategoryLiquid:     true,
		AssetCategoryLiability:  true,
		AssetCategoryInvestment: false,
		AssetCategoryProperty:   false,
		AssetCategoryVehicle:    false,
		AssetCategoryValuable:   false,
	}

	for category, expected := range tracking {
		assert.True(t, category.Valid(), category)
		assert.Equal(t, expected, category.TracksBalance(), category)
	}
}

func TestAsset_CurrentValuation(t *testing.T) {
	t.Run("Balance assets store their balance", func(t *testing.T) {
		a := &Asset{Category: AssetCategoryLiability}
		a.SetCurrentValuation(decimal.NewNullDecimal(decimal.NewFromInt(-5000)))

		assert.True(t, a.Balance.Equal(decimal.NewFromInt(-5000)))
		assert.False(t, a.Valuation.Valid)
		assert.True(t, a.CurrentValuation().Decimal.Equal(decimal.NewFromInt(-5000)))
	})

	t.Run("Missing balance reads as zero", func(t *testing.T) {
		a := &Asset{Category: AssetCategoryLiquid, Balance: decimal.NewFromInt(7)}
		a.SetCurrentValuation(decimal.NullDecimal{})

		assert.True(t, a.Balance.IsZero())
		assert.True(t, a.CurrentValuation().Valid)
	})

	t.Run("Valuation assets keep NULL", func(t *testing.T) {
		a := &Asset{Category: AssetCategoryProperty}
		a.SetCurrentValuation(decimal.NullDecimal{})

		assert.False(t, a.CurrentValuation().Valid)
		assert.True(t, a.Balance.IsZero())
	})
}
