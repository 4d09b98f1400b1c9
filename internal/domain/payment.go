package domain

import "github.com/shopspring/decimal"

// PaymentRequest describes a known loan whose level payment is wanted
type PaymentRequest struct {
	LoanAmount            decimal.Decimal `json:"loanAmount" yaml:"loan_amount"`
	AnnualInterestRatePct decimal.Decimal `json:"annualInterestRatePct" yaml:"annual_interest_rate_pct"`
	LoanTermMonths        int             `json:"loanTermMonths" yaml:"loan_term_months"`
}

// PaymentResult is the level payment and schedule for a PaymentRequest
type PaymentResult struct {
	LoanAmount           decimal.Decimal     `json:"loanAmount" yaml:"loan_amount"`
	MonthlyPayment       decimal.Decimal     `json:"monthlyPayment" yaml:"monthly_payment"`
	TotalPaid            decimal.Decimal     `json:"totalPaid" yaml:"total_paid"`
	TotalInterest        decimal.Decimal     `json:"totalInterest" yaml:"total_interest"`
	AmortizationSchedule []AmortizationEntry `json:"amortizationSchedule" yaml:"amortization_schedule"`
}
