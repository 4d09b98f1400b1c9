package validation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// Input fields by wire name with the snake_case alias used in YAML files
var (
	fieldAnnualIncome   = field{name: "annualIncome", alias: "annual_income", required: true}
	fieldMonthlyDebts   = field{name: "monthlyDebts", alias: "monthly_debts", fallback: decimal.Zero}
	fieldDownPayment    = field{name: "downPayment", alias: "down_payment", fallback: decimal.Zero}
	fieldRate           = field{name: "annualInterestRatePct", alias: "annual_interest_rate_pct", required: true}
	fieldTerm           = field{name: "loanTermMonths", alias: "loan_term_months", required: true, saturate: true}
	fieldPropertyTax    = field{name: "propertyTaxAnnual", alias: "property_tax_annual", fallback: decimal.Zero}
	fieldInsurance      = field{name: "homeInsuranceAnnual", alias: "home_insurance_annual", fallback: decimal.Zero}
	fieldHOA            = field{name: "hoaMonthly", alias: "hoa_monthly", fallback: decimal.Zero}
	fieldMaxFrontEndDTI = field{name: "maxFrontEndDTI", alias: "max_front_end_dti", fallback: domain.DefaultMaxFrontEndDTI}
	fieldMaxBackEndDTI  = field{name: "maxBackEndDTI", alias: "max_back_end_dti", fallback: domain.DefaultMaxBackEndDTI}

	fieldLoanAmount  = field{name: "loanAmount", alias: "loan_amount", required: true}
	fieldTargetPrice = field{name: "targetHomePrice", alias: "target_home_price", required: true}
)

// affordabilityOrder is the order failures are reported in
var affordabilityOrder = []string{
	"annualIncome", "monthlyDebts", "downPayment", "annualInterestRatePct", "loanTermMonths",
	"propertyTaxAnnual", "homeInsuranceAnnual", "hoaMonthly", "maxFrontEndDTI", "maxBackEndDTI",
}

var paymentOrder = []string{"loanAmount", "annualInterestRatePct", "loanTermMonths"}

var requiredIncomeOrder = append(append([]string{}, affordabilityOrder[1:]...), "targetHomePrice")

var rateSearchOrder = append(append([]string{}, affordabilityOrder...), "targetHomePrice")

// affordabilityInput carries coerced values through the range rules
type affordabilityInput struct {
	AnnualIncome          decimal.Decimal `json:"annualIncome" validate:"dgt=0"`
	MonthlyDebts          decimal.Decimal `json:"monthlyDebts" validate:"dgte=0"`
	DownPayment           decimal.Decimal `json:"downPayment" validate:"dgte=0"`
	AnnualInterestRatePct decimal.Decimal `json:"annualInterestRatePct" validate:"dgte=0"`
	LoanTermMonths        decimal.Decimal `json:"loanTermMonths" validate:"dgt=0"`
	PropertyTaxAnnual     decimal.Decimal `json:"propertyTaxAnnual" validate:"dgte=0"`
	HomeInsuranceAnnual   decimal.Decimal `json:"homeInsuranceAnnual" validate:"dgte=0"`
	HOAMonthly            decimal.Decimal `json:"hoaMonthly" validate:"dgte=0"`
	MaxFrontEndDTI        decimal.Decimal `json:"maxFrontEndDTI" validate:"dgt=0,dlte=1"`
	MaxBackEndDTI         decimal.Decimal `json:"maxBackEndDTI" validate:"dgt=0,dlte=1"`
}

// profileInput is affordabilityInput without an income
type profileInput struct {
	MonthlyDebts          decimal.Decimal `json:"monthlyDebts" validate:"dgte=0"`
	DownPayment           decimal.Decimal `json:"downPayment" validate:"dgte=0"`
	AnnualInterestRatePct decimal.Decimal `json:"annualInterestRatePct" validate:"dgte=0"`
	LoanTermMonths        decimal.Decimal `json:"loanTermMonths" validate:"dgt=0"`
	PropertyTaxAnnual     decimal.Decimal `json:"propertyTaxAnnual" validate:"dgte=0"`
	HomeInsuranceAnnual   decimal.Decimal `json:"homeInsuranceAnnual" validate:"dgte=0"`
	HOAMonthly            decimal.Decimal `json:"hoaMonthly" validate:"dgte=0"`
	MaxFrontEndDTI        decimal.Decimal `json:"maxFrontEndDTI" validate:"dgt=0,dlte=1"`
	MaxBackEndDTI         decimal.Decimal `json:"maxBackEndDTI" validate:"dgt=0,dlte=1"`
}

type paymentInput struct {
	LoanAmount            decimal.Decimal `json:"loanAmount" validate:"dgte=0"`
	AnnualInterestRatePct decimal.Decimal `json:"annualInterestRatePct" validate:"dgte=0"`
	LoanTermMonths        decimal.Decimal `json:"loanTermMonths" validate:"dgt=0"`
}

// Affordability validates raw input into an AffordabilityRequest. Every failing
// field is reported in a single *domain.ValidationError.
func (v *Validator) Affordability(raw map[string]any) (*domain.AffordabilityRequest, error) {
	verr := &domain.ValidationError{}
	var in affordabilityInput

	coerce(raw, fieldAnnualIncome, &in.AnnualIncome, verr)
	coerce(raw, fieldMonthlyDebts, &in.MonthlyDebts, verr)
	coerce(raw, fieldDownPayment, &in.DownPayment, verr)
	coerce(raw, fieldRate, &in.AnnualInterestRatePct, verr)
	coerceTerm(raw, fieldTerm, &in.LoanTermMonths, verr)
	coerce(raw, fieldPropertyTax, &in.PropertyTaxAnnual, verr)
	coerce(raw, fieldInsurance, &in.HomeInsuranceAnnual, verr)
	coerce(raw, fieldHOA, &in.HOAMonthly, verr)
	coerce(raw, fieldMaxFrontEndDTI, &in.MaxFrontEndDTI, verr)
	coerce(raw, fieldMaxBackEndDTI, &in.MaxBackEndDTI, verr)

	if err := v.checkRanges(&in, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		sortFields(verr, affordabilityOrder)
		return nil, verr
	}

	return &domain.AffordabilityRequest{
		AnnualIncome:          in.AnnualIncome,
		MonthlyDebts:          in.MonthlyDebts,
		DownPayment:           in.DownPayment,
		AnnualInterestRatePct: in.AnnualInterestRatePct,
		LoanTermMonths:        termInt(in.LoanTermMonths),
		PropertyTaxAnnual:     in.PropertyTaxAnnual,
		HomeInsuranceAnnual:   in.HomeInsuranceAnnual,
		HOAMonthly:            in.HOAMonthly,
		MaxFrontEndDTI:        in.MaxFrontEndDTI,
		MaxBackEndDTI:         in.MaxBackEndDTI,
	}, nil
}

// Payment validates raw payment calculator input
func (v *Validator) Payment(raw map[string]any) (*domain.PaymentRequest, error) {
	verr := &domain.ValidationError{}
	var in paymentInput

	coerce(raw, fieldLoanAmount, &in.LoanAmount, verr)
	coerce(raw, fieldRate, &in.AnnualInterestRatePct, verr)
	coerceTerm(raw, fieldTerm, &in.LoanTermMonths, verr)

	if err := v.checkRanges(&in, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		sortFields(verr, paymentOrder)
		return nil, verr
	}

	return &domain.PaymentRequest{
		LoanAmount:            in.LoanAmount,
		AnnualInterestRatePct: in.AnnualInterestRatePct,
		LoanTermMonths:        termInt(in.LoanTermMonths),
	}, nil
}

// RequiredIncome validates a borrower profile plus a target price. Income is
// not read. The target only has to be numeric; the solver rejects
// non-positive targets itself.
func (v *Validator) RequiredIncome(raw map[string]any) (*domain.RequiredIncomeRequest, error) {
	verr := &domain.ValidationError{}
	var in profileInput
	var target decimal.Decimal

	coerce(raw, fieldMonthlyDebts, &in.MonthlyDebts, verr)
	coerce(raw, fieldDownPayment, &in.DownPayment, verr)
	coerce(raw, fieldRate, &in.AnnualInterestRatePct, verr)
	coerceTerm(raw, fieldTerm, &in.LoanTermMonths, verr)
	coerce(raw, fieldPropertyTax, &in.PropertyTaxAnnual, verr)
	coerce(raw, fieldInsurance, &in.HomeInsuranceAnnual, verr)
	coerce(raw, fieldHOA, &in.HOAMonthly, verr)
	coerce(raw, fieldMaxFrontEndDTI, &in.MaxFrontEndDTI, verr)
	coerce(raw, fieldMaxBackEndDTI, &in.MaxBackEndDTI, verr)
	coerce(raw, fieldTargetPrice, &target, verr)

	if err := v.checkRanges(&in, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		sortFields(verr, requiredIncomeOrder)
		return nil, verr
	}

	return &domain.RequiredIncomeRequest{
		Profile: domain.AffordabilityRequest{
			MonthlyDebts:          in.MonthlyDebts,
			DownPayment:           in.DownPayment,
			AnnualInterestRatePct: in.AnnualInterestRatePct,
			LoanTermMonths:        termInt(in.LoanTermMonths),
			PropertyTaxAnnual:     in.PropertyTaxAnnual,
			HomeInsuranceAnnual:   in.HomeInsuranceAnnual,
			HOAMonthly:            in.HOAMonthly,
			MaxFrontEndDTI:        in.MaxFrontEndDTI,
			MaxBackEndDTI:         in.MaxBackEndDTI,
		},
		TargetHomePrice: target,
	}, nil
}

// MaxRate validates a full borrower profile plus a target price for a rate
// search. The rate is optional since the search replaces it.
func (v *Validator) MaxRate(raw map[string]any) (*domain.AffordabilityRequest, decimal.Decimal, error) {
	in := Canonical(raw)
	if _, ok := in[fieldRate.name]; !ok {
		in[fieldRate.name] = decimal.Zero
	}

	targetErr := &domain.ValidationError{}
	var target decimal.Decimal
	coerce(in, fieldTargetPrice, &target, targetErr)

	req, err := v.Affordability(in)
	if err != nil {
		verr, ok := err.(*domain.ValidationError)
		if !ok {
			return nil, decimal.Zero, err
		}
		verr.Fields = append(verr.Fields, targetErr.Fields...)
		sortFields(verr, rateSearchOrder)
		return nil, decimal.Zero, verr
	}
	if targetErr.HasErrors() {
		return nil, decimal.Zero, targetErr
	}

	return req, target, nil
}

// sortFields reorders failures to match order, stable for unknown names
func sortFields(verr *domain.ValidationError, order []string) {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	sorted := make([]domain.FieldError, 0, len(verr.Fields))
	for _, name := range order {
		if f, ok := verr.Field(name); ok {
			sorted = append(sorted, f)
		}
	}
	for _, f := range verr.Fields {
		if _, known := rank[f.Field]; !known {
			sorted = append(sorted, f)
		}
	}
	verr.Fields = sorted
}
