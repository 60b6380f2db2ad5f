package domain

import (
	"github.com/google/uuid"
)

// SystemCategoryRole identifies a category the ledger provisions for its own
// bookkeeping. Lookups go through the role key, never the display name.
type SystemCategoryRole string

const (
	SystemCategoryDebt               SystemCategoryRole = "debt"
	SystemCategoryDebtInterest       SystemCategoryRole = "debt.interest"
	SystemCategoryCorrection         SystemCategoryRole = "correction"
	SystemCategoryCorrectionPositive SystemCategoryRole = "correction.positive"
	SystemCategoryCorrectionNegative SystemCategoryRole = "correction.negative"
)

// CategoryKind mirrors the category type column
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// SystemCategorySpec describes how a system category is provisioned
type SystemCategorySpec struct {
	Role   SystemCategoryRole
	Name   string
	Kind   CategoryKind
	Parent SystemCategoryRole // empty for top-level categories
}

// SystemCategories lists every system category, parents before children
var SystemCategories = []SystemCategorySpec{
	{Role: SystemCategoryDebt, Name: "Debt", Kind: CategoryKindExpense},
	{Role: SystemCategoryDebtInterest, Name: "Interest", Kind: CategoryKindExpense, Parent: SystemCategoryDebt},
	{Role: SystemCategoryCorrection, Name: "Correction", Kind: CategoryKindIncome},
	{Role: SystemCategoryCorrectionPositive, Name: "Positive", Kind: CategoryKindIncome, Parent: SystemCategoryCorrection},
	{Role: SystemCategoryCorrectionNegative, Name: "Negative", Kind: CategoryKindExpense, Parent: SystemCategoryCorrection},
}

// SpecFor returns the provisioning spec of role
func SpecFor(role SystemCategoryRole) (SystemCategorySpec, bool) {
	for _, spec := range SystemCategories {
		if spec.Role == role {
			return spec, true
		}
	}
	return SystemCategorySpec{}, false
}

// CorrectionRoleFor picks the correction category for a balance difference
func CorrectionRoleFor(t OperationType) SystemCategoryRole {
	if t == OperationTypeExpense {
		return SystemCategoryCorrectionNegative
	}
	return SystemCategoryCorrectionPositive
}

// Category is the subset of the category registry the ledger needs
type Category struct {
	ID         uuid.UUID
	Name       string
	ParentID   *uuid.UUID
	Kind       CategoryKind
	IsSystem   bool
	SystemRole SystemCategoryRole
}
