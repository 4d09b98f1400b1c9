package output

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/domain"
)

// Report bundles a validated request with its computed result for rendering
type Report struct {
	Request     domain.AffordabilityRequest `json:"request" yaml:"request"`
	Result      *domain.AffordabilityResult `json:"result" yaml:"result"`
	Assumptions []string                    `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
	GeneratedAt time.Time                   `json:"generatedAt" yaml:"generated_at"`
}

// NewReport builds a report and fills in the annual summary when the
// result does not carry one yet.
func NewReport(req domain.AffordabilityRequest, result *domain.AffordabilityResult) *Report {
	if result != nil && result.AnnualSummary == nil {
		result.AnnualSummary = calculation.SummarizeByYear(result.AmortizationSchedule)
	}
	return &Report{
		Request:     req,
		Result:      result,
		Assumptions: DefaultAssumptions,
		GeneratedAt: time.Now().UTC(),
	}
}

// SaveRequest writes a request as a YAML input file that LoadFromFile accepts
func SaveRequest(req domain.AffordabilityRequest, filename string) error {
	data, err := yaml.Marshal(map[string]domain.AffordabilityRequest{"request": req})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRatio renders a 0..1 ratio as a percentage
func FormatRatio(ratio decimal.Decimal) string {
	return FormatPercentage(ratio.Mul(decimal.NewFromInt(100)))
}
