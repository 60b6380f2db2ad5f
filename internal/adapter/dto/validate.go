package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// money and quantity accept decimals that fit their stored precision
	_ = v.RegisterValidation("money", decimalRule(domain.ValidMoney))
	_ = v.RegisterValidation("quantity", decimalRule(domain.ValidQuantity))

	return v
}

func decimalRule(fits func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && fits(d)
	}
}

// Validate checks the validate tags of req and reports the first failure as
// an InvalidArgument ledger error
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return domain.NewInvalidArgument("invalid request: %v", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return domain.NewInvalidArgument("invalid request: %s", strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a uuid", fe.Field())
	case "money":
		return fmt.Sprintf("%s must be a decimal number with at most %d integer digits and %d decimal places",
			fe.Field(), domain.MoneyIntegerDigits, domain.MoneyScale)
	case "quantity":
		return fmt.Sprintf("%s must be a decimal number with at most %d integer digits and %d decimal places",
			fe.Field(), domain.QuantityIntegerDigits, domain.QuantityScale)
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "min", "max", "gte", "lte", "gt":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}

// ParseID parses an id taken from a path or message field
func ParseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domain.NewInvalidArgument("invalid %s format: %v", field, err)
	}
	return id, nil
}

func optionalID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	// Already checked by the uuid tag
	id := uuid.MustParse(value)
	return &id
}

func mustDecimal(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(value)
	return d
}

func optionalDecimal(value string) decimal.NullDecimal {
	if value == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(mustDecimal(value))
}

func optionalDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	d, _ := time.Parse(DateLayout, value)
	return d
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func formatID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func formatNullDecimal(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
