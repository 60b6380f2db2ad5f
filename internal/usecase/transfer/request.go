package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/asset"
)

// Type selects the transfer variant
type Type string

const (
	LiquidToLiquid     Type = "liquid_to_liquid"
	LiquidToInvestment Type = "liquid_to_investment"
	LiquidToProperty   Type = "liquid_to_property"
	LiquidToVehicle    Type = "liquid_to_vehicle"
	LiquidToValuable   Type = "liquid_to_valuable"
	LiquidToLiability  Type = "liquid_to_liability"
)

// Valid reports whether t names a known variant
func (t Type) Valid() bool {
	switch t {
	case LiquidToLiquid, LiquidToInvestment, LiquidToProperty,
		LiquidToVehicle, LiquidToValuable, LiquidToLiability:
		return true
	}
	return false
}

// destinationCategory is the asset category a transfer of type t lands in
func (t Type) destinationCategory() domain.AssetCategory {
	switch t {
	case LiquidToLiquid:
		return domain.AssetCategoryLiquid
	case LiquidToInvestment:
		return domain.AssetCategoryInvestment
	case LiquidToProperty:
		return domain.AssetCategoryProperty
	case LiquidToVehicle:
		return domain.AssetCategoryVehicle
	case LiquidToValuable:
		return domain.AssetCategoryValuable
	case LiquidToLiability:
		return domain.AssetCategoryLiability
	}
	return ""
}

// Request is a transfer intent
type Request struct {
	Type        Type
	FromAssetID uuid.UUID
	ToAssetID   *uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  *uuid.UUID

	// InvestmentQuantity is required for liquid_to_investment
	InvestmentQuantity decimal.NullDecimal

	// InterestAmount is booked as a separate expense on liquid_to_liability
	InterestAmount decimal.NullDecimal

	// NewAsset is created by the transfer instead of using ToAssetID
	NewAsset *asset.Descriptor
}

// Result lists the rows written by a transfer
type Result struct {
	FromOperationID         uuid.UUID
	ToOperationID           *uuid.UUID
	NewAssetID              *uuid.UUID
	InvestmentTransactionID *uuid.UUID
	InterestOperationID     *uuid.UUID
}

// Validate checks the request shape. It runs before any write.
func (r *Request) Validate() error {
	if !r.Type.Valid() {
		return domain.NewInvalidArgument("unknown transfer_type: %s", r.Type)
	}

	if r.FromAssetID == uuid.Nil {
		return domain.NewInvalidArgument("from_asset_id is required")
	}

	if !r.Amount.IsPositive() {
		return domain.NewInvalidArgument("transfer amount must be positive")
	}

	if r.ToAssetID != nil && *r.ToAssetID == r.FromAssetID {
		return domain.NewInvalidArgument("cannot transfer an asset to itself")
	}

	if r.InterestAmount.Valid && r.InterestAmount.Decimal.IsNegative() {
		return domain.NewInvalidArgument("interest_amount cannot be negative")
	}

	switch r.Type {
	case LiquidToLiquid, LiquidToLiability:
		if r.ToAssetID == nil {
			return domain.NewInvalidArgument("to_asset_id is required for %s", r.Type)
		}

	case LiquidToInvestment:
		if !r.InvestmentQuantity.Valid {
			return domain.NewInvalidArgument("investment_quantity is required for %s", r.Type)
		}
		if !r.InvestmentQuantity.Decimal.IsPositive() {
			return domain.NewInvalidArgument("investment_quantity must be positive")
		}
		if r.ToAssetID == nil && r.NewAsset == nil {
			return domain.NewInvalidArgument("new_asset is required when to_asset_id is empty")
		}

	case LiquidToProperty, LiquidToVehicle, LiquidToValuable:
		if r.NewAsset == nil {
			return domain.NewInvalidArgument("new_asset is required for %s", r.Type)
		}
		// These transfers always create their destination
		if r.ToAssetID != nil {
			return domain.NewInvalidArgument("to_asset_id is not accepted for %s", r.Type)
		}
	}

	return nil
}
