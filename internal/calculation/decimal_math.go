package calculation

import (
	"github.com/shopspring/decimal"
)

// workingScale is the number of decimal places carried by intermediate results.
// Money is only rounded to cents at the points where a value is reported.
const workingScale int32 = 30

var (
	one       = decimal.NewFromInt(1)
	twelve    = decimal.NewFromInt(12)
	monthsDiv = decimal.NewFromInt(1200)
)

// RoundCents applies banker's rounding to the currency minor unit
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// roundRatio rounds a DTI ratio for reporting
func roundRatio(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(4)
}

// powInt raises base to a non-negative integer power by repeated squaring,
// rounding every product to workingScale so long terms stay cheap.
func powInt(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(workingScale)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base).Round(workingScale)
		}
	}
	return result
}

// discountFactor returns (1+r)^-n
func discountFactor(r decimal.Decimal, n int) decimal.Decimal {
	return one.DivRound(powInt(one.Add(r), n), workingScale)
}

// MonthlyRate converts a nominal annual percentage into a monthly fraction
func MonthlyRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.DivRound(monthsDiv, workingScale)
}

// PresentValue is the principal a level payment retires over n periods at rate r
func PresentValue(payment, r decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	if r.IsZero() {
		return payment.Mul(decimal.NewFromInt(int64(n)))
	}
	annuity := one.Sub(discountFactor(r, n))
	if annuity.IsZero() {
		return payment.Mul(decimal.NewFromInt(int64(n)))
	}
	return payment.Mul(annuity).DivRound(r, workingScale)
}

// LevelPayment is the fixed payment that retires principal over n periods at rate r
func LevelPayment(principal, r decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	if r.IsZero() {
		return principal.DivRound(decimal.NewFromInt(int64(n)), workingScale)
	}
	annuity := one.Sub(discountFactor(r, n))
	if annuity.IsZero() {
		return principal.DivRound(decimal.NewFromInt(int64(n)), workingScale)
	}
	return principal.Mul(r).DivRound(annuity, workingScale)
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
