package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// AdjustDebts changes monthly non-housing debt payments, e.g. paying off a
// car loan (negative) or taking one on (positive). Debts never go below zero.
type AdjustDebts struct {
	DeltaMonthly decimal.Decimal
}

func (t *AdjustDebts) Name() string {
	return "adjust_debts"
}

func (t *AdjustDebts) Description() string {
	return fmt.Sprintf("Change monthly debts by %s$%s", sign(t.DeltaMonthly), t.DeltaMonthly.Abs().StringFixed(2))
}

func (t *AdjustDebts) Validate(base domain.AffordabilityRequest) error {
	return nil
}

func (t *AdjustDebts) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	base.MonthlyDebts = decimal.Max(decimal.Zero, base.MonthlyDebts.Add(t.DeltaMonthly))
	return base, nil
}

// ScaleIncome multiplies annual income by (1 + Pct/100), rounded to the cent
type ScaleIncome struct {
	Pct decimal.Decimal
}

func (t *ScaleIncome) Name() string {
	return "scale_income"
}

func (t *ScaleIncome) Description() string {
	return fmt.Sprintf("Change income by %s%%", signed(t.Pct))
}

func (t *ScaleIncome) Validate(base domain.AffordabilityRequest) error {
	if !t.Pct.GreaterThan(decimal.NewFromInt(-100)) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("income cannot fall by %s%%", t.Pct.Abs()), nil)
	}
	return nil
}

func (t *ScaleIncome) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	factor := decimal.NewFromInt(1).Add(t.Pct.Div(decimal.NewFromInt(100)))
	base.AnnualIncome = base.AnnualIncome.Mul(factor).RoundBank(2)
	return base, nil
}

// SetDTICeilings replaces the front-end and back-end ceilings. A zero value
// keeps the existing ceiling.
type SetDTICeilings struct {
	FrontEnd decimal.Decimal
	BackEnd  decimal.Decimal
}

func (t *SetDTICeilings) Name() string {
	return "set_dti"
}

func (t *SetDTICeilings) Description() string {
	switch {
	case t.FrontEnd.IsZero():
		return fmt.Sprintf("Use a %s%% back-end DTI ceiling", pct(t.BackEnd))
	case t.BackEnd.IsZero():
		return fmt.Sprintf("Use a %s%% front-end DTI ceiling", pct(t.FrontEnd))
	default:
		return fmt.Sprintf("Use %s%%/%s%% DTI ceilings", pct(t.FrontEnd), pct(t.BackEnd))
	}
}

func (t *SetDTICeilings) Validate(base domain.AffordabilityRequest) error {
	one := decimal.NewFromInt(1)
	for _, c := range []decimal.Decimal{t.FrontEnd, t.BackEnd} {
		if c.IsNegative() || c.GreaterThan(one) {
			return NewTransformError(t.Name(), "validate", fmt.Sprintf("ceiling must be within (0, 1], got %s", c), nil)
		}
	}
	if t.FrontEnd.IsZero() && t.BackEnd.IsZero() {
		return NewTransformError(t.Name(), "validate", "at least one ceiling is required", nil)
	}
	return nil
}

func (t *SetDTICeilings) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	if !t.FrontEnd.IsZero() {
		base.MaxFrontEndDTI = t.FrontEnd
	}
	if !t.BackEnd.IsZero() {
		base.MaxBackEndDTI = t.BackEnd
	}
	return base, nil
}

// SetHOA replaces the monthly HOA dues
type SetHOA struct {
	Monthly decimal.Decimal
}

func (t *SetHOA) Name() string {
	return "set_hoa"
}

func (t *SetHOA) Description() string {
	return fmt.Sprintf("Set HOA dues to $%s/month", t.Monthly.StringFixed(2))
}

func (t *SetHOA) Validate(base domain.AffordabilityRequest) error {
	if t.Monthly.IsNegative() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("HOA dues must be non-negative, got %s", t.Monthly), nil)
	}
	return nil
}

func (t *SetHOA) Apply(base domain.AffordabilityRequest) (domain.AffordabilityRequest, error) {
	base.HOAMonthly = t.Monthly
	return base, nil
}

func pct(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).String()
}
