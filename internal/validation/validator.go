package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// Validator turns loosely typed input into well-formed requests
type Validator struct {
	validate *validator.Validate
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

// New builds a Validator with decimal support and wire field names
func New() *Validator {
	v := validator.New()

	// Decimals reach the range rules as their exact string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	registerDecimalRule(v, "dgt", func(c int) bool { return c > 0 })
	registerDecimalRule(v, "dgte", func(c int) bool { return c >= 0 })
	registerDecimalRule(v, "dlt", func(c int) bool { return c < 0 })
	registerDecimalRule(v, "dlte", func(c int) bool { return c <= 0 })

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// registerDecimalRule adds a tag comparing the field to its decimal parameter
// with Cmp, so no precision is lost to float64.
func registerDecimalRule(v *validator.Validate, tag string, accept func(cmp int) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return accept(d.Cmp(decimal.RequireFromString(fl.Param())))
	})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// Default returns the shared Validator instance
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Validate validates raw affordability input with the shared Validator
func Validate(raw map[string]any) (*domain.AffordabilityRequest, error) {
	return Default().Affordability(raw)
}

// ValidatePayment validates raw payment calculator input with the shared Validator
func ValidatePayment(raw map[string]any) (*domain.PaymentRequest, error) {
	return Default().Payment(raw)
}

// ValidateRequiredIncome validates raw required-income input with the shared Validator
func ValidateRequiredIncome(raw map[string]any) (*domain.RequiredIncomeRequest, error) {
	return Default().RequiredIncome(raw)
}

// checkRanges runs struct tag rules and records OUT_OF_RANGE for every field
// that was not already rejected during coercion.
func (v *Validator) checkRanges(s interface{}, verr *domain.ValidationError) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	for _, e := range validationErrors {
		if _, seen := verr.Field(e.Field()); seen {
			continue
		}
		verr.Add(e.Field(), domain.ReasonOutOfRange, rangeMessage(e))
	}
	return nil
}

func rangeMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "dgt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "dgte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "dlt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "dlte":
		return fmt.Sprintf("must be at most %s", e.Param())
	default:
		return "invalid value"
	}
}
