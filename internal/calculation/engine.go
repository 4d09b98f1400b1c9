package calculation

import (
	"fmt"

	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMaxTermMonths bounds schedule size (100 years)
const DefaultMaxTermMonths = 1200

// Engine computes mortgage affordability and amortization.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	MaxTermMonths int
	Logger        Logger
	Debug         bool // Log intermediate values
}

// NewEngine creates an engine with the default term bound
func NewEngine() *Engine {
	return NewEngineWithMaxTerm(DefaultMaxTermMonths)
}

// NewEngineWithMaxTerm creates an engine with a custom term bound.
// A non-positive bound falls back to the default.
func NewEngineWithMaxTerm(maxTermMonths int) *Engine {
	if maxTermMonths <= 0 {
		maxTermMonths = DefaultMaxTermMonths
	}
	return &Engine{
		MaxTermMonths: maxTermMonths,
		Logger:        NopLogger{},
	}
}

// SetLogger replaces the engine logger; nil installs a no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *Engine) maxTerm() int {
	if e.MaxTermMonths <= 0 {
		return DefaultMaxTermMonths
	}
	return e.MaxTermMonths
}

// TermBound is the effective maximum term in months
func (e *Engine) TermBound() int {
	return e.maxTerm()
}

// CheckTerm reports whether a term is usable under this engine's bound
func (e *Engine) CheckTerm(term int) error {
	if term <= 0 {
		return &domain.DomainError{
			Code:    domain.CodeInvalidTerm,
			Message: fmt.Sprintf("loan term must be at least 1 month, got %d", term),
		}
	}
	if term > e.maxTerm() {
		return domain.NewTermTooLargeError(term, e.maxTerm())
	}
	return nil
}

// MonthlyEscrow is taxes and insurance spread monthly plus HOA dues
func MonthlyEscrow(req domain.AffordabilityRequest) decimal.Decimal {
	annual := req.PropertyTaxAnnual.Add(req.HomeInsuranceAnnual)
	return RoundCents(annual.DivRound(twelve, workingScale).Add(req.HOAMonthly))
}

// HousingCeilings returns the maximum total housing payment allowed by the
// front-end and back-end DTI limits. The back-end ceiling may be negative.
func HousingCeilings(req domain.AffordabilityRequest) (frontEnd, backEnd decimal.Decimal) {
	monthlyIncome := req.AnnualIncome.DivRound(twelve, workingScale)
	frontEnd = RoundCents(monthlyIncome.Mul(req.MaxFrontEndDTI))
	backEnd = RoundCents(monthlyIncome.Mul(req.MaxBackEndDTI).Sub(req.MonthlyDebts))
	return frontEnd, backEnd
}

// ComputeAffordability derives the maximum loan a borrower can carry under both
// DTI ceilings and projects its full amortization schedule.
func (e *Engine) ComputeAffordability(req domain.AffordabilityRequest) (*domain.AffordabilityResult, error) {
	if err := e.CheckTerm(req.LoanTermMonths); err != nil {
		return nil, err
	}
	log := e.logger()

	n := req.LoanTermMonths
	r := MonthlyRate(req.AnnualInterestRatePct)
	escrow := MonthlyEscrow(req)

	frontEnd, backEnd := HousingCeilings(req)
	binding := domain.FrontEnd
	bindingPayment := frontEnd
	if backEnd.LessThan(frontEnd) {
		binding = domain.BackEnd
		bindingPayment = backEnd
	}
	bindingPayment = maxZero(bindingPayment)
	maxPI := maxZero(bindingPayment.Sub(escrow))

	if e.Debug {
		log.Debugf("monthly rate=%s term=%d escrow=%s", r.String(), n, escrow.StringFixed(2))
		log.Debugf("ceilings: front-end=%s back-end=%s binding=%s", frontEnd.StringFixed(2), backEnd.StringFixed(2), binding)
	}

	loan := RoundCents(maxZero(PresentValue(maxPI, r, n)))
	payment := RoundCents(LevelPayment(loan, r, n))
	schedule := BuildSchedule(loan, payment, r, n)
	totalPaid, totalInterest := ScheduleTotals(schedule)

	housing := payment.Add(escrow)
	frontDTI, backDTI := achievedDTI(req, housing)

	if e.Debug {
		log.Debugf("max P&I=%s loan=%s payment=%s", maxPI.StringFixed(2), loan.StringFixed(2), payment.StringFixed(2))
	}
	if loan.IsZero() {
		log.Infof("no principal affordable: binding %s ceiling leaves %s after escrow", binding, maxPI.StringFixed(2))
	}

	return &domain.AffordabilityResult{
		MaxLoanAmount:                  loan,
		MaxHomePrice:                   loan.Add(req.DownPayment),
		MonthlyPrincipalAndInterest:    payment,
		MonthlyEscrow:                  escrow,
		TotalMonthlyHousingCost:        housing,
		FrontEndDTI:                    frontDTI,
		BackEndDTI:                     backDTI,
		BindingConstraint:              binding,
		AmortizationSchedule:           schedule,
		MaxHousingPaymentFrontEnd:      frontEnd,
		MaxHousingPaymentBackEnd:       backEnd,
		MaxPrincipalAndInterestPayment: maxPI,
		MonthlyRate:                    r,
		TotalInterest:                  totalInterest,
		TotalPaid:                      totalPaid,
	}, nil
}

// achievedDTI reports the ratios actually reached by a housing payment
func achievedDTI(req domain.AffordabilityRequest, housing decimal.Decimal) (frontEnd, backEnd decimal.Decimal) {
	if !req.AnnualIncome.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	annualHousing := housing.Mul(twelve)
	annualDebt := annualHousing.Add(req.MonthlyDebts.Mul(twelve))
	frontEnd = roundRatio(annualHousing.DivRound(req.AnnualIncome, workingScale))
	backEnd = roundRatio(annualDebt.DivRound(req.AnnualIncome, workingScale))
	return frontEnd, backEnd
}

// ComputePayment returns the level payment and schedule for a known loan
func (e *Engine) ComputePayment(req domain.PaymentRequest) (*domain.PaymentResult, error) {
	if err := e.CheckTerm(req.LoanTermMonths); err != nil {
		return nil, err
	}

	n := req.LoanTermMonths
	r := MonthlyRate(req.AnnualInterestRatePct)
	loan := RoundCents(maxZero(req.LoanAmount))
	payment := RoundCents(LevelPayment(loan, r, n))
	schedule := BuildSchedule(loan, payment, r, n)
	totalPaid, totalInterest := ScheduleTotals(schedule)

	if e.Debug {
		e.logger().Debugf("payment for %s over %d months at %s%%: %s", loan.StringFixed(2), n, req.AnnualInterestRatePct.String(), payment.StringFixed(2))
	}

	return &domain.PaymentResult{
		LoanAmount:           loan,
		MonthlyPayment:       payment,
		TotalPaid:            totalPaid,
		TotalInterest:        totalInterest,
		AmortizationSchedule: schedule,
	}, nil
}
