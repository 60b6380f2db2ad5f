package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentTransactionType is buy or sell
type InvestmentTransactionType string

const (
	InvestmentBuy  InvestmentTransactionType = "buy"
	InvestmentSell InvestmentTransactionType = "sell"
)

// Valid reports whether t is buy or sell
func (t InvestmentTransactionType) Valid() bool {
	return t == InvestmentBuy || t == InvestmentSell
}

// InvestmentTransaction records a change of holdings of an investment asset.
// Rows are only ever inserted or deleted, never mutated.
type InvestmentTransaction struct {
	ID           uuid.UUID
	AssetID      uuid.UUID
	Type         InvestmentTransactionType
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	TotalValue   decimal.Decimal
	Date         time.Time
	Notes        string
	CreatedAt    time.Time
}

// Validate ensures the investment transaction adheres to domain rules
func (t *InvestmentTransaction) Validate() error {
	if t.AssetID == uuid.Nil {
		return NewInvalidArgument("investment transaction must reference an asset")
	}
	if !t.Type.Valid() {
		return NewInvalidArgument("investment transaction type must be buy or sell")
	}
	if !t.Quantity.IsPositive() {
		return NewInvalidArgument("investment quantity must be positive")
	}
	if t.PricePerUnit.IsNegative() {
		return NewInvalidArgument("price per unit cannot be negative")
	}
	if t.TotalValue.IsNegative() {
		return NewInvalidArgument("total value cannot be negative")
	}
	if t.Date.IsZero() {
		return NewInvalidArgument("transaction date is required")
	}
	if err := checkQuantity("quantity", t.Quantity); err != nil {
		return err
	}
	if err := checkQuantity("price per unit", t.PricePerUnit); err != nil {
		return err
	}
	return checkMoney("total value", t.TotalValue)
}

// Holdings is the quantity and cost basis derived from a transaction history
type Holdings struct {
	Quantity             decimal.NullDecimal // NULL when there is no history at all
	AveragePurchasePrice decimal.NullDecimal
}

// RecomputeHoldings derives holdings from scratch:
//
//	quantity = Σ buy.quantity − Σ sell.quantity (NULL without transactions)
//	average  = Σ buy.total_value / Σ buy.quantity (NULL when nothing was bought)
//
// The average is rounded to QuantityScale, the precision it is stored with.
func RecomputeHoldings(txs []*InvestmentTransaction) Holdings {
	if len(txs) == 0 {
		return Holdings{}
	}

	boughtQty := decimal.Zero
	boughtValue := decimal.Zero
	soldQty := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case InvestmentBuy:
			boughtQty = boughtQty.Add(tx.Quantity)
			boughtValue = boughtValue.Add(tx.TotalValue)
		case InvestmentSell:
			soldQty = soldQty.Add(tx.Quantity)
		}
	}

	h := Holdings{Quantity: decimal.NewNullDecimal(boughtQty.Sub(soldQty))}
	if boughtQty.IsPositive() {
		h.AveragePurchasePrice = decimal.NewNullDecimal(boughtValue.Div(boughtQty).Round(QuantityScale))
	}
	return h
}

// WeightedAverage returns the incremental weighted average
// (oldQty*oldAvg + newQty*newPrice) / (oldQty+newQty).
// It must agree with RecomputeHoldings for buy-only histories.
func WeightedAverage(oldQty decimal.Decimal, oldAvg decimal.NullDecimal, newQty, newPrice decimal.Decimal) decimal.NullDecimal {
	total := oldQty.Add(newQty)
	if !total.IsPositive() {
		return decimal.NullDecimal{}
	}
	avg := decimal.Zero
	if oldAvg.Valid {
		avg = oldAvg.Decimal
	}
	return decimal.NewNullDecimal(oldQty.Mul(avg).Add(newQty.Mul(newPrice)).Div(total))
}

// AssetValuation is a mark-to-market snapshot of an asset
type AssetValuation struct {
	ID        uuid.UUID
	AssetID   uuid.UUID
	Date      time.Time
	Value     decimal.Decimal
	Notes     string
	CreatedAt time.Time
}

// Validate ensures the valuation adheres to domain rules
func (v *AssetValuation) Validate() error {
	if v.AssetID == uuid.Nil {
		return NewInvalidArgument("valuation must reference an asset")
	}
	if v.Value.IsNegative() {
		return NewInvalidArgument("valuation must not be negative")
	}
	if v.Date.IsZero() {
		return NewInvalidArgument("valuation date is required")
	}
	return checkMoney("valuation", v.Value)
}
