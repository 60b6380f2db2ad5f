package domain

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetCategory is the category of an asset type
type AssetCategory string

const (
	AssetCategoryLiquid     AssetCategory = "liquid"
	AssetCategoryInvestment AssetCategory = "investment"
	AssetCategoryProperty   AssetCategory = "property"
	AssetCategoryVehicle    AssetCategory = "vehicle"
	AssetCategoryValuable   AssetCategory = "valuable"
	AssetCategoryLiability  AssetCategory = "liability"
)

// DefaultCurrency is used when a new asset does not name one
const DefaultCurrency = "PLN"

// Valid reports whether c is one of the known categories
func (c AssetCategory) Valid() bool {
	switch c {
	case AssetCategoryLiquid, AssetCategoryInvestment, AssetCategoryProperty,
		AssetCategoryVehicle, AssetCategoryValuable, AssetCategoryLiability:
		return true
	}
	return false
}

// TracksBalance reports whether the asset value is the running sum of its
// operations (liquid accounts and liabilities). All other categories carry a
// mark-to-market valuation instead.
func (c AssetCategory) TracksBalance() bool {
	return c == AssetCategoryLiquid || c == AssetCategoryLiability
}

// AssetType is an entry of the asset type registry
type AssetType struct {
	ID               uuid.UUID
	Name             string
	Category         AssetCategory
	AllowsOperations bool
}

// Asset represents a tracked holding in the domain layer.
//
// Balance and Valuation are two distinct concepts persisted in the same column:
// Balance is the materialized Σ of top-level operations and is only meaningful
// when Category.TracksBalance(); Valuation is the latest recorded mark-to-market
// value for every other category.
type Asset struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	AssetTypeID          uuid.UUID
	Category             AssetCategory
	Name                 string
	Description          string
	AccountNumber        string
	Quantity             decimal.NullDecimal
	AveragePurchasePrice decimal.NullDecimal // NULL means "no cost basis yet"
	Balance              decimal.Decimal
	Valuation            decimal.NullDecimal
	Currency             string
	IsActive             bool
	CreatedAt            time.Time
	SortOrder            int
}

// CurrentValuation returns the value stored in the asset's current_valuation column
func (a *Asset) CurrentValuation() decimal.NullDecimal {
	if a.Category.TracksBalance() {
		return decimal.NewNullDecimal(a.Balance)
	}
	return a.Valuation
}

// SetCurrentValuation assigns the stored column value to the concept matching the category
func (a *Asset) SetCurrentValuation(v decimal.NullDecimal) {
	if a.Category.TracksBalance() {
		if v.Valid {
			a.Balance = v.Decimal
		} else {
			a.Balance = decimal.Zero
		}
		return
	}
	a.Valuation = v
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return NewInvalidArgument("asset name cannot be empty")
	}

	if !a.Category.Valid() {
		return NewInvalidArgument("asset category is invalid")
	}

	// Currency is a label only; it must still name a real ISO currency
	if money.GetCurrency(a.Currency) == nil {
		return NewInvalidArgument("asset currency is not a known currency code")
	}

	// Holdings are only meaningful for investments
	if a.Category != AssetCategoryInvestment {
		if a.Quantity.Valid || a.AveragePurchasePrice.Valid {
			return NewInvalidArgument("only investment assets carry quantity and average purchase price")
		}
	}

	if a.Quantity.Valid && a.Quantity.Decimal.IsNegative() {
		return NewInvalidArgument("asset quantity cannot be negative")
	}

	return nil
}
