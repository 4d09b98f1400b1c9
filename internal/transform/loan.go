package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// ShiftRate moves the annual rate by DeltaPct percentage points. The result
// is clamped at zero so a large cut models a 0% promotion.
type ShiftRate struct {
	DeltaPct decimal.Decimal
}

func (t *ShiftRate) Name() string {
	return "shift_rate"
}

func (t *ShiftRate) Description() string {
	return fmt.Sprintf("Shift the interest rate by %s points", signed(t.DeltaPct))
}

func (t *ShiftRate) Validate(base domain.AffordabilityRequest) error {
	return nil
}

func (t *ShiftRate) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	base.AnnualInterestRatePct = decimal.Max(decimal.Zero, base.AnnualInterestRatePct.Add(t.DeltaPct))
	return base, nil
}

// SetRate replaces the annual rate
type SetRate struct {
	RatePct decimal.Decimal
}

func (t *SetRate) Name() string {
	return "set_rate"
}

func (t *SetRate) Description() string {
	return fmt.Sprintf("Set the interest rate to %s%%", t.RatePct.String())
}

func (t *SetRate) Validate(base domain.AffordabilityRequest) error {
	if t.RatePct.IsNegative() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("rate must be non-negative, got %s", t.RatePct), nil)
	}
	return nil
}

func (t *SetRate) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	base.AnnualInterestRatePct = t.RatePct
	return base, nil
}

// SetTerm replaces the loan term
type SetTerm struct {
	Months int
}

func (t *SetTerm) Name() string {
	return "set_term"
}

func (t *SetTerm) Description() string {
	if t.Months%12 == 0 {
		return fmt.Sprintf("Use a %d-year term", t.Months/12)
	}
	return fmt.Sprintf("Use a %d-month term", t.Months)
}

func (t *SetTerm) Validate(base domain.AffordabilityRequest) error {
	if t.Months <= 0 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("months must be positive, got %d", t.Months), nil)
	}
	return nil
}

func (t *SetTerm) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	base.LoanTermMonths = t.Months
	return base, nil
}

// AdjustDownPayment adds Delta to the down payment. A withdrawal larger than
// the down payment is rejected.
type AdjustDownPayment struct {
	Delta decimal.Decimal
}

func (t *AdjustDownPayment) Name() string {
	return "adjust_down_payment"
}

func (t *AdjustDownPayment) Description() string {
	return fmt.Sprintf("Change the down payment by %s$%s", sign(t.Delta), t.Delta.Abs().StringFixed(2))
}

func (t *AdjustDownPayment) Validate(base domain.AffordabilityRequest) error {
	if base.DownPayment.Add(t.Delta).IsNegative() {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("down payment %s cannot be reduced by %s", base.DownPayment, t.Delta.Abs()), nil)
	}
	return nil
}

func (t *AdjustDownPayment) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	base.DownPayment = base.DownPayment.Add(t.Delta)
	return base, nil
}

func sign(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}

func signed(d decimal.Decimal) string {
	return sign(d) + d.Abs().String()
}
