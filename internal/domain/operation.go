package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType represents the direction of an operation
type OperationType string

const (
	OperationTypeIncome  OperationType = "income"
	OperationTypeExpense OperationType = "expense"
)

// Valid reports whether t is income or expense
func (t OperationType) Valid() bool {
	return t == OperationTypeIncome || t == OperationTypeExpense
}

// OperationTypeFor returns the operation type matching the sign of amount.
// Zero is treated as income.
func OperationTypeFor(amount decimal.Decimal) OperationType {
	if amount.IsNegative() {
		return OperationTypeExpense
	}
	return OperationTypeIncome
}

// SignedAmount applies the ledger sign convention to a magnitude:
// expenses are stored negative, incomes positive.
func SignedAmount(t OperationType, amount decimal.Decimal) decimal.Decimal {
	if t == OperationTypeExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// Operation is one dated, signed monetary entry against one asset
type Operation struct {
	ID                uuid.UUID
	CreatedAt         time.Time
	CategoryID        *uuid.UUID
	Description       string
	AssetID           uuid.UUID
	Amount            decimal.Decimal // signed: expense < 0, income > 0
	Type              OperationType
	Date              time.Time
	ParentOperationID *uuid.UUID // set only on split children
	IsSplit           bool       // set only on split parents
	LinkedOperationID *uuid.UUID // the other leg of a transfer
	Hashtags          []string
}

// IsChild reports whether the operation is a split child
func (o *Operation) IsChild() bool {
	return o.ParentOperationID != nil
}

// CountsInBalance reports whether the operation contributes to its asset's
// balance. Standalone entries and split parents do, split children never do.
func (o *Operation) CountsInBalance() bool {
	return !o.IsChild()
}

// Validate ensures the operation adheres to domain rules
func (o *Operation) Validate() error {
	if o.AssetID == uuid.Nil {
		return NewInvalidArgument("operation must reference an asset")
	}

	if !o.Type.Valid() {
		return NewInvalidArgument("operation type must be income or expense")
	}

	if o.Date.IsZero() {
		return NewInvalidArgument("operation date is required")
	}

	// Sign convention: expense never positive, income never negative
	if o.Type == OperationTypeExpense && o.Amount.IsPositive() {
		return NewInvalidArgument("expense amount must not be positive")
	}
	if o.Type == OperationTypeIncome && o.Amount.IsNegative() {
		return NewInvalidArgument("income amount must not be negative")
	}

	if err := checkMoney("amount", o.Amount); err != nil {
		return err
	}

	if o.IsChild() && o.IsSplit {
		return NewInvalidArgument("a split child cannot itself be split")
	}

	if o.LinkedOperationID != nil && *o.LinkedOperationID == o.ID {
		return NewInvalidArgument("operation cannot be linked to itself")
	}

	return nil
}

// Balance sums the amounts of the operations that count towards an asset balance
func Balance(ops []*Operation) decimal.Decimal {
	total := decimal.Zero
	for _, op := range ops {
		if op.CountsInBalance() {
			total = total.Add(op.Amount)
		}
	}
	return total
}

// ValidateTransferPair checks that two linked legs move the same amount in
// opposite directions and point at each other.
func ValidateTransferPair(from, to *Operation) error {
	if from.AssetID == to.AssetID {
		return NewInvalidArgument("transfer legs must reference different assets")
	}

	if !from.Amount.Add(to.Amount).IsZero() {
		return NewInvalidArgument("transfer legs must net to zero")
	}

	if from.LinkedOperationID == nil || *from.LinkedOperationID != to.ID ||
		to.LinkedOperationID == nil || *to.LinkedOperationID != from.ID {
		return NewInvalidArgument("transfer legs must be linked to each other")
	}

	return nil
}

// OperationFilter narrows top-level operation listings
type OperationFilter struct {
	AssetID *uuid.UUID
	Limit   int
	Offset  int
}
