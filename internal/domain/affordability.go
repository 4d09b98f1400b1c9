package domain

import (
	"github.com/shopspring/decimal"
)

// Default DTI ceilings applied when a request omits them
var (
	DefaultMaxFrontEndDTI = decimal.RequireFromString("0.28")
	DefaultMaxBackEndDTI  = decimal.RequireFromString("0.36")
)

// AffordabilityRequest is a validated set of borrower inputs.
// Values are copied by the engine and never mutated.
type AffordabilityRequest struct {
	AnnualIncome          decimal.Decimal `json:"annualIncome" yaml:"annual_income"`
	MonthlyDebts          decimal.Decimal `json:"monthlyDebts" yaml:"monthly_debts"`
	DownPayment           decimal.Decimal `json:"downPayment" yaml:"down_payment"`
	AnnualInterestRatePct decimal.Decimal `json:"annualInterestRatePct" yaml:"annual_interest_rate_pct"` // 6.5 means 6.5%
	LoanTermMonths        int             `json:"loanTermMonths" yaml:"loan_term_months"`
	PropertyTaxAnnual     decimal.Decimal `json:"propertyTaxAnnual" yaml:"property_tax_annual"`
	HomeInsuranceAnnual   decimal.Decimal `json:"homeInsuranceAnnual" yaml:"home_insurance_annual"`
	HOAMonthly            decimal.Decimal `json:"hoaMonthly" yaml:"hoa_monthly"`
	MaxFrontEndDTI        decimal.Decimal `json:"maxFrontEndDTI" yaml:"max_front_end_dti"`
	MaxBackEndDTI         decimal.Decimal `json:"maxBackEndDTI" yaml:"max_back_end_dti"`
}

// BindingConstraint identifies which DTI ceiling determined the maximum loan
type BindingConstraint string

const (
	FrontEnd BindingConstraint = "FRONT_END"
	BackEnd  BindingConstraint = "BACK_END"
)

// AmortizationEntry is one period of a level-payment schedule
type AmortizationEntry struct {
	Period           int             `json:"periodIndex" yaml:"period"`
	Payment          decimal.Decimal `json:"paymentAmount" yaml:"payment"`
	Principal        decimal.Decimal `json:"principalPortion" yaml:"principal"`
	Interest         decimal.Decimal `json:"interestPortion" yaml:"interest"`
	RemainingBalance decimal.Decimal `json:"remainingBalance" yaml:"remaining_balance"`
}

// AffordabilityResult is the outcome of one affordability computation
type AffordabilityResult struct {
	MaxLoanAmount               decimal.Decimal     `json:"maxLoanAmount" yaml:"max_loan_amount"`
	MaxHomePrice                decimal.Decimal     `json:"maxHomePrice" yaml:"max_home_price"`
	MonthlyPrincipalAndInterest decimal.Decimal     `json:"monthlyPrincipalAndInterest" yaml:"monthly_principal_and_interest"`
	MonthlyEscrow               decimal.Decimal     `json:"monthlyEscrow" yaml:"monthly_escrow"`
	TotalMonthlyHousingCost     decimal.Decimal     `json:"totalMonthlyHousingCost" yaml:"total_monthly_housing_cost"`
	FrontEndDTI                 decimal.Decimal     `json:"frontEndDTI" yaml:"front_end_dti"`
	BackEndDTI                  decimal.Decimal     `json:"backEndDTI" yaml:"back_end_dti"`
	BindingConstraint           BindingConstraint   `json:"bindingConstraint" yaml:"binding_constraint"`
	AmortizationSchedule        []AmortizationEntry `json:"amortizationSchedule" yaml:"amortization_schedule"`

	// Ceilings and totals behind the headline numbers
	MaxHousingPaymentFrontEnd      decimal.Decimal `json:"maxHousingPaymentFrontEnd" yaml:"max_housing_payment_front_end"`
	MaxHousingPaymentBackEnd       decimal.Decimal `json:"maxHousingPaymentBackEnd" yaml:"max_housing_payment_back_end"`
	MaxPrincipalAndInterestPayment decimal.Decimal `json:"maxPrincipalAndInterestPayment" yaml:"max_principal_and_interest_payment"`
	MonthlyRate                    decimal.Decimal `json:"monthlyRate" yaml:"monthly_rate"`
	TotalInterest                  decimal.Decimal `json:"totalInterest" yaml:"total_interest"`
	TotalPaid                      decimal.Decimal `json:"totalPaid" yaml:"total_paid"`

	AnnualSummary []AnnualAmortization `json:"annualSummary,omitempty" yaml:"annual_summary,omitempty"`
}

// AnnualAmortization rolls twelve schedule periods into one row
type AnnualAmortization struct {
	Year           int             `json:"year" yaml:"year"`
	Principal      decimal.Decimal `json:"principal" yaml:"principal"`
	Interest       decimal.Decimal `json:"interest" yaml:"interest"`
	EndingBalance  decimal.Decimal `json:"endingBalance" yaml:"ending_balance"`
	PaymentsInYear int             `json:"paymentsInYear" yaml:"payments_in_year"`
}

// IsZeroLoan reports whether the borrower cannot afford any principal
func (r *AffordabilityResult) IsZeroLoan() bool {
	return r.MaxLoanAmount.IsZero()
}
