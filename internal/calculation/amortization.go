package calculation

import (
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildSchedule splits a level payment into interest and principal for each of
// n periods. Interest is rounded to cents before the balance is reduced, and the
// final period pays off whatever balance remains so the schedule closes at zero.
func BuildSchedule(principal, payment, r decimal.Decimal, n int) []domain.AmortizationEntry {
	if n <= 0 {
		return nil
	}

	schedule := make([]domain.AmortizationEntry, 0, n)
	balance := principal

	for period := 1; period <= n; period++ {
		interest := decimal.Zero
		if !r.IsZero() {
			interest = RoundCents(balance.Mul(r))
		}

		principalPart := payment.Sub(interest)
		if period == n || principalPart.GreaterThan(balance) {
			principalPart = balance
		}
		if principalPart.IsNegative() {
			principalPart = decimal.Zero
		}

		balance = balance.Sub(principalPart)

		schedule = append(schedule, domain.AmortizationEntry{
			Period:           period,
			Payment:          principalPart.Add(interest),
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	return schedule
}

// ScheduleTotals sums the payments and interest of a schedule
func ScheduleTotals(schedule []domain.AmortizationEntry) (totalPaid, totalInterest decimal.Decimal) {
	for _, entry := range schedule {
		totalPaid = totalPaid.Add(entry.Payment)
		totalInterest = totalInterest.Add(entry.Interest)
	}
	return totalPaid, totalInterest
}

// SummarizeByYear rolls a monthly schedule into one row per loan year
func SummarizeByYear(schedule []domain.AmortizationEntry) []domain.AnnualAmortization {
	if len(schedule) == 0 {
		return nil
	}

	years := make([]domain.AnnualAmortization, 0, (len(schedule)+11)/12)
	for i, entry := range schedule {
		year := i/12 + 1
		if len(years) < year {
			years = append(years, domain.AnnualAmortization{Year: year})
		}
		row := &years[year-1]
		row.Principal = row.Principal.Add(entry.Principal)
		row.Interest = row.Interest.Add(entry.Interest)
		row.EndingBalance = entry.RemainingBalance
		row.PaymentsInYear++
	}
	return years
}
