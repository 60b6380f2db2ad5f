package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitTolerance is the largest accepted difference between a parent amount
// and the sum of its split items. It is fixed and independent of currency.
var SplitTolerance = decimal.New(1, -2)

// MinSplitItems is the minimum number of items a split must have
const MinSplitItems = 2

// SplitItem describes one child of a split.
// Amount is a magnitude; the child takes its sign from the parent's type.
type SplitItem struct {
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Description string
}

// ValidateSplit checks items against the parent operation.
// CRITICAL: Σ|items| must equal |parent.Amount| within SplitTolerance.
func ValidateSplit(parent *Operation, items []SplitItem) error {
	if parent.IsSplit {
		return NewInvalidState("operation %s is already split", parent.ID)
	}

	if parent.IsChild() {
		return NewInvalidState("operation %s is a split child and cannot be split", parent.ID)
	}

	if len(items) < MinSplitItems {
		return NewInvalidArgument("split requires at least %d items", MinSplitItems)
	}

	sum := decimal.Zero
	for _, item := range items {
		if !item.Amount.IsPositive() {
			return NewInvalidArgument("split item amount must be positive")
		}
		if err := checkMoney("split item amount", item.Amount); err != nil {
			return err
		}
		sum = sum.Add(item.Amount)
	}

	diff := sum.Sub(parent.Amount.Abs()).Abs()
	if diff.GreaterThan(SplitTolerance) {
		return NewAmountMismatch("sum of items (%s) does not match parent amount (%s)",
			sum.String(), parent.Amount.Abs().String())
	}

	return nil
}

// NewSplitChild builds the child operation for item, inheriting asset, type
// and date from the parent
func NewSplitChild(parent *Operation, item SplitItem) *Operation {
	parentID := parent.ID
	return &Operation{
		ID:                uuid.New(),
		CategoryID:        item.CategoryID,
		Description:       item.Description,
		AssetID:           parent.AssetID,
		Amount:            SignedAmount(parent.Type, item.Amount),
		Type:              parent.Type,
		Date:              parent.Date,
		ParentOperationID: &parentID,
		Hashtags:          ExtractHashtags(item.Description),
	}
}
