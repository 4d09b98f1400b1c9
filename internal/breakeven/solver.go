package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/domain"
)

var (
	cent   = decimal.RequireFromString("0.01")
	twelve = decimal.NewFromInt(12)
	two    = decimal.NewFromInt(2)
)

// Solver inverts the affordability engine
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// RequiredIncome finds the smallest annual income, to the cent, whose maximum
// home price reaches req.TargetHomePrice with every other input held fixed.
//
// A starting income comes from inverting both DTI ceilings around the payment
// the needed loan requires, rounded up to the cent. The engine confirms it
// (nudging upward a cent at a time if rounding left the price short) and a
// cent-granular bisection then walks it down to the minimum.
func (s *Solver) RequiredIncome(ctx context.Context, req domain.RequiredIncomeRequest) (*domain.RequiredIncomeResult, error) {
	const op = "required_income"

	if !req.TargetHomePrice.IsPositive() {
		return nil, invalidTarget(op, req.TargetHomePrice)
	}
	if err := s.Engine.CheckTerm(req.Profile.LoanTermMonths); err != nil {
		return nil, err
	}

	profile := req.Profile
	loan := req.TargetHomePrice.Sub(profile.DownPayment).RoundCeil(2)
	if loan.IsNegative() {
		loan = decimal.Zero
	}

	affordsAt := func(income decimal.Decimal) (*domain.AffordabilityResult, bool, error) {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}
		candidate := profile
		candidate.AnnualIncome = income
		result, err := s.Engine.ComputeAffordability(candidate)
		if err != nil {
			return nil, false, &BreakEvenError{
				Operation: op,
				Message:   "failed to verify income",
				Cause:     err,
			}
		}
		return result, result.MaxHomePrice.GreaterThanOrEqual(req.TargetHomePrice), nil
	}

	income := closedFormIncome(profile, loan)

	// Confirm the estimate, nudging upward if rounding left it short.
	adjustments := 0
	best, ok, err := affordsAt(income)
	for ; err == nil && !ok; best, ok, err = affordsAt(income) {
		if adjustments >= s.maxAdjustments() {
			return nil, &BreakEvenError{
				Operation: op,
				Message:   fmt.Sprintf("income did not reach target after %d adjustments", adjustments),
			}
		}
		adjustments++
		income = income.Add(cent)
	}
	if err != nil {
		return nil, err
	}

	// Bracket [short, income] by doubling steps, then bisect in whole cents.
	short := decimal.NewFromInt(-1)
	step := decimal.NewFromInt(1)
	for short.IsNegative() {
		lower := income.Sub(step)
		if !lower.IsPositive() {
			lower = decimal.Zero
		}
		result, ok, err := affordsAt(lower)
		if err != nil {
			return nil, err
		}
		if !ok {
			short = lower
			break
		}
		income, best = lower, result
		if income.IsZero() {
			break
		}
		step = step.Mul(two)
	}
	for !short.IsNegative() && income.Sub(short).GreaterThan(cent) {
		mid := short.Add(income).Div(two).RoundFloor(2)
		result, ok, err := affordsAt(mid)
		if err != nil {
			return nil, err
		}
		if ok {
			income, best = mid, result
		} else {
			short = mid
		}
	}

	return &domain.RequiredIncomeResult{
		TargetHomePrice:      req.TargetHomePrice,
		RequiredLoanAmount:   loan,
		RequiredAnnualIncome: income,
		BindingConstraint:    best.BindingConstraint,
		Adjustments:          adjustments,
		Affordability:        best,
	}, nil
}

// closedFormIncome inverts the tighter of the two DTI ceilings for the payment
// that retires loan, rounded up to the cent.
func closedFormIncome(profile domain.AffordabilityRequest, loan decimal.Decimal) decimal.Decimal {
	r := calculation.MonthlyRate(profile.AnnualInterestRatePct)
	payment := calculation.LevelPayment(loan, r, profile.LoanTermMonths).RoundCeil(2)
	housing := payment.Add(calculation.MonthlyEscrow(profile))

	incomeFE := housing.Mul(twelve).DivRound(profile.MaxFrontEndDTI, 30)
	incomeBE := housing.Add(profile.MonthlyDebts).Mul(twelve).DivRound(profile.MaxBackEndDTI, 30)
	return decimal.Max(incomeFE, incomeBE).RoundCeil(2)
}

// MaxRate finds the highest annual rate, within the configured tolerance, at
// which the borrower can still afford req.TargetHomePrice.
func (s *Solver) MaxRate(ctx context.Context, req RateSearchRequest) (*RateSearchResult, error) {
	const op = "max_rate"

	if !req.TargetHomePrice.IsPositive() {
		return nil, invalidTarget(op, req.TargetHomePrice)
	}

	evaluate := func(rate decimal.Decimal) (*domain.AffordabilityResult, error) {
		candidate := req.Request
		candidate.AnnualInterestRatePct = rate
		result, err := s.Engine.ComputeAffordability(candidate)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: op,
				Message:   "failed to calculate affordability",
				Cause:     err,
			}
		}
		return result, nil
	}
	affords := func(result *domain.AffordabilityResult) bool {
		return result.MaxHomePrice.GreaterThanOrEqual(req.TargetHomePrice)
	}

	minRate := decimal.Zero
	maxRate := s.Options.MaxRatePct
	if !maxRate.IsPositive() {
		maxRate = DefaultSolverOptions().MaxRatePct
	}

	best, err := evaluate(minRate)
	if err != nil {
		return nil, err
	}
	if !affords(best) {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   "target price is not affordable even at a zero rate",
			Cause: &domain.DomainError{
				Code:    domain.CodeUnaffordable,
				Message: "max home price at 0% is " + best.MaxHomePrice.StringFixed(2),
			},
		}
	}

	top, err := evaluate(maxRate)
	if err != nil {
		return nil, err
	}
	if affords(top) {
		return &RateSearchResult{
			TargetHomePrice: req.TargetHomePrice,
			MaxRatePct:      maxRate,
			Iterations:      0,
			ConvergenceInfo: "Affordable across the whole search range",
			Affordability:   top,
		}, nil
	}

	tolerance := s.Options.RateTolerance
	if !tolerance.IsPositive() {
		tolerance = DefaultSolverOptions().RateTolerance
	}
	maxIterations := s.Options.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultSolverOptions().MaxIterations
	}

	// Invariant: minRate affords the target, maxRate does not.
	iterations := 0
	for iterations < maxIterations {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		testRate := minRate.Add(maxRate).DivRound(two, 12)
		result, err := evaluate(testRate)
		if err != nil {
			return nil, err
		}
		if affords(result) {
			minRate = testRate
			best = result
		} else {
			maxRate = testRate
		}

		if maxRate.Sub(minRate).LessThanOrEqual(tolerance) {
			return &RateSearchResult{
				TargetHomePrice: req.TargetHomePrice,
				MaxRatePct:      minRate,
				Iterations:      iterations,
				ConvergenceInfo: fmt.Sprintf("Converged within %s percentage points", tolerance.String()),
				Affordability:   best,
			}, nil
		}
	}

	return &RateSearchResult{
		TargetHomePrice: req.TargetHomePrice,
		MaxRatePct:      minRate,
		Iterations:      iterations,
		ConvergenceInfo: fmt.Sprintf("Max iterations (%d) reached", maxIterations),
		Affordability:   best,
	}, nil
}

func (s *Solver) maxAdjustments() int {
	if s.Options.MaxAdjustments <= 0 {
		return DefaultSolverOptions().MaxAdjustments
	}
	return s.Options.MaxAdjustments
}
