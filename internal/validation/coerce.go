package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// field describes one input value and how it is looked up
type field struct {
	name     string // wire name, used in errors
	alias    string // snake_case name accepted from YAML files
	required bool
	fallback decimal.Decimal
	saturate bool // clamp oversized magnitudes instead of rejecting them
}

func (f field) lookup(raw map[string]any) (any, bool) {
	if v, ok := raw[f.name]; ok {
		return v, true
	}
	if f.alias != "" {
		if v, ok := raw[f.alias]; ok {
			return v, true
		}
	}
	return nil, false
}

// coerce reads f from raw into dst. Absent optional fields take their
// fallback. It returns false when the field was rejected.
func coerce(raw map[string]any, f field, dst *decimal.Decimal, verr *domain.ValidationError) bool {
	v, present := f.lookup(raw)
	if !present || v == nil {
		if f.required {
			verr.Add(f.name, domain.ReasonMissing, "is required")
			return false
		}
		*dst = f.fallback
		return true
	}

	if tooLong(v) {
		verr.Add(f.name, domain.ReasonOutOfRange, fmt.Sprintf("must have at most %d characters", maxNumberLen))
		return false
	}
	d, ok := toDecimal(v)
	if !ok {
		verr.Add(f.name, domain.ReasonNotANumber, "must be a number")
		return false
	}

	switch checkBounds(d) {
	case tooPrecise:
		verr.Add(f.name, domain.ReasonOutOfRange, fmt.Sprintf("must have at most %d decimal places", maxScale))
		return false
	case tooLarge:
		if !f.saturate {
			verr.Add(f.name, domain.ReasonOutOfRange, "must be less than 1e15 in magnitude")
			return false
		}
		d = maxMagnitude.Mul(decimal.NewFromInt(int64(d.Sign())))
	}

	*dst = d
	return true
}

// Numbers are bounded before any arithmetic touches them: decimal operations
// expand the exponent into a big.Int, so "1e99999999" would otherwise cost
// minutes of CPU.
const (
	maxNumberLen       = 1100
	maxScale           = 1000
	maxIntegerDigits   = 15
	maxCoefficientBits = 4096
)

var maxMagnitude = decimal.New(1, maxIntegerDigits)

type bound int

const (
	inBounds bound = iota
	tooLarge
	tooPrecise
)

// checkBounds reports whether |d| < 1e15 with at most maxScale decimal places.
// It never rescales d.
func checkBounds(d decimal.Decimal) bound {
	if d.Exponent() < -maxScale {
		return tooPrecise
	}
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return inBounds
	}
	// With the exponent at least -maxScale, a coefficient this wide is far
	// beyond the magnitude limit.
	if coef.BitLen() > maxCoefficientBits {
		return tooLarge
	}
	digits := len(new(big.Int).Abs(coef).String())
	if int64(digits)+int64(d.Exponent()) > maxIntegerDigits {
		return tooLarge
	}
	return inBounds
}

func tooLong(v any) bool {
	switch n := v.(type) {
	case string:
		return len(strings.TrimSpace(n)) > maxNumberLen
	case json.Number:
		return len(n) > maxNumberLen
	}
	return false
}

// coerceTerm reads a month count, which must be a whole number
func coerceTerm(raw map[string]any, f field, dst *decimal.Decimal, verr *domain.ValidationError) bool {
	if !coerce(raw, f, dst, verr) {
		return false
	}
	if !dst.Equal(dst.Truncate(0)) {
		verr.Add(f.name, domain.ReasonOutOfRange, "must be a whole number of months")
		return false
	}
	return true
}

// termInt converts a validated whole month count. Values beyond int32 saturate
// so the engine reports them against its term bound.
func termInt(d decimal.Decimal) int {
	limit := decimal.NewFromInt(math.MaxInt32)
	if d.GreaterThan(limit) {
		return math.MaxInt32
	}
	return int(d.IntPart())
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(n)), true
	case uint16:
		return decimal.NewFromInt(int64(n)), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case json.Number:
		return parseDecimal(string(n))
	case string:
		return parseDecimal(n)
	default:
		return decimal.Zero, false
	}
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var knownFields = []field{
	fieldAnnualIncome, fieldMonthlyDebts, fieldDownPayment, fieldRate, fieldTerm,
	fieldPropertyTax, fieldInsurance, fieldHOA, fieldMaxFrontEndDTI, fieldMaxBackEndDTI,
	fieldLoanAmount, fieldTargetPrice,
}

// Canonical returns a copy of raw with snake_case aliases renamed to wire
// names. A wire name present alongside its alias wins. Unknown keys are kept.
func Canonical(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for _, f := range knownFields {
		v, ok := out[f.alias]
		if !ok {
			continue
		}
		delete(out, f.alias)
		if _, exists := out[f.name]; !exists {
			out[f.name] = v
		}
	}
	return out
}
