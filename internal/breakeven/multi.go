package breakeven

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// RequiredIncomeLadder solves RequiredIncome for each target price, lowest
// price first. A failing price is recorded and the rest continue.
func (s *Solver) RequiredIncomeLadder(
	ctx context.Context,
	profile domain.AffordabilityRequest,
	prices []decimal.Decimal,
) (*LadderResult, error) {

	if len(prices) == 0 {
		return nil, &BreakEvenError{
			Operation: "required_income_ladder",
			Message:   "at least one target price is required",
		}
	}

	sorted := append([]decimal.Decimal(nil), prices...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	ladder := &LadderResult{}

	for _, price := range sorted {
		result, err := s.RequiredIncome(ctx, domain.RequiredIncomeRequest{
			Profile:         profile,
			TargetHomePrice: price,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if ladder.Failed == nil {
				ladder.Failed = make(map[string]string)
			}
			ladder.Failed[price.String()] = err.Error()
			continue
		}
		ladder.Rungs = append(ladder.Rungs, *result)
	}

	if len(ladder.Rungs) == 0 {
		return nil, &BreakEvenError{
			Operation: "required_income_ladder",
			Message:   "no target prices could be solved",
		}
	}

	return ladder, nil
}

// IncomeStep returns the extra income each rung needs over the previous one
func (l *LadderResult) IncomeStep() []decimal.Decimal {
	steps := make([]decimal.Decimal, len(l.Rungs))
	for i := 1; i < len(l.Rungs); i++ {
		steps[i] = l.Rungs[i].RequiredAnnualIncome.Sub(l.Rungs[i-1].RequiredAnnualIncome)
	}
	return steps
}
