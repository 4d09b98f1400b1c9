package domain

import "github.com/shopspring/decimal"

// RequiredIncomeRequest asks for the smallest income that affords TargetHomePrice.
// Profile.AnnualIncome is ignored.
type RequiredIncomeRequest struct {
	Profile         AffordabilityRequest `json:"profile" yaml:"profile"`
	TargetHomePrice decimal.Decimal      `json:"targetHomePrice" yaml:"target_home_price"`
}

// RequiredIncomeResult reports the solved income and the affordability it buys
type RequiredIncomeResult struct {
	TargetHomePrice      decimal.Decimal      `json:"targetHomePrice" yaml:"target_home_price"`
	RequiredLoanAmount   decimal.Decimal      `json:"requiredLoanAmount" yaml:"required_loan_amount"`
	RequiredAnnualIncome decimal.Decimal      `json:"requiredAnnualIncome" yaml:"required_annual_income"`
	BindingConstraint    BindingConstraint    `json:"bindingConstraint" yaml:"binding_constraint"`
	Adjustments          int                  `json:"adjustments" yaml:"adjustments"`
	Affordability        *AffordabilityResult `json:"affordability,omitempty" yaml:"affordability,omitempty"`
}
