package breakeven

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// RateSearchRequest asks for the highest rate at which Request still affords
// TargetHomePrice. Request.AnnualInterestRatePct is ignored.
type RateSearchRequest struct {
	Request         domain.AffordabilityRequest `json:"request" yaml:"request"`
	TargetHomePrice decimal.Decimal             `json:"targetHomePrice" yaml:"target_home_price"`
}

// RateSearchResult contains the outcome of a rate search
type RateSearchResult struct {
	TargetHomePrice decimal.Decimal             `json:"targetHomePrice"`
	MaxRatePct      decimal.Decimal             `json:"maxRatePct"`
	Iterations      int                         `json:"iterations"`
	ConvergenceInfo string                      `json:"convergenceInfo"`
	Affordability   *domain.AffordabilityResult `json:"affordability,omitempty"`
}

// LadderResult holds required incomes for a series of target prices
type LadderResult struct {
	Rungs  []domain.RequiredIncomeResult `json:"rungs"`
	Failed map[string]string             `json:"failed,omitempty"` // target price -> reason
}

// SolverOptions configures the solver algorithms
type SolverOptions struct {
	MaxAdjustments int             // Cent bumps allowed while verifying a required income
	MaxIterations  int             // Binary search iterations for rate search
	RateTolerance  decimal.Decimal // Rate search stops once the bracket is this narrow (percent)
	MaxRatePct     decimal.Decimal // Upper bound of the rate search
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxAdjustments: 100,
		MaxIterations:  60,
		RateTolerance:  decimal.RequireFromString("0.001"),
		MaxRatePct:     decimal.NewFromInt(30),
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}

func invalidTarget(operation string, target decimal.Decimal) error {
	return &BreakEvenError{
		Operation: operation,
		Message:   "target home price must be positive",
		Cause: &domain.DomainError{
			Code:    domain.CodeInvalidTarget,
			Message: "target home price " + target.String() + " is not positive",
		},
	}
}
