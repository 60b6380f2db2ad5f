package domain

import "github.com/shopspring/decimal"

// Storage precision of monetary amounts, NUMERIC(19, 4)
const (
	MoneyScale         = 4
	MoneyIntegerDigits = 15
)

// Storage precision of quantities and unit prices, NUMERIC(24, 8)
const (
	QuantityScale         = 8
	QuantityIntegerDigits = 16
)

// fits reports whether d is representable with at most scale fractional
// digits and intDigits integer digits
func fits(d decimal.Decimal, scale int32, intDigits int32) bool {
	if !d.Equal(d.Truncate(scale)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, intDigits))
}

// ValidMoney reports whether d can be stored as an amount without rounding
func ValidMoney(d decimal.Decimal) bool {
	return fits(d, MoneyScale, MoneyIntegerDigits)
}

// ValidQuantity reports whether d can be stored as a quantity or unit price
// without rounding
func ValidQuantity(d decimal.Decimal) bool {
	return fits(d, QuantityScale, QuantityIntegerDigits)
}

func checkMoney(field string, d decimal.Decimal) error {
	if !ValidMoney(d) {
		return NewInvalidArgument("%s must have at most %d integer digits and %d decimal places",
			field, MoneyIntegerDigits, MoneyScale)
	}
	return nil
}

func checkQuantity(field string, d decimal.Decimal) error {
	if !ValidQuantity(d) {
		return NewInvalidArgument("%s must have at most %d integer digits and %d decimal places",
			field, QuantityIntegerDigits, QuantityScale)
	}
	return nil
}
