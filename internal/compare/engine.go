package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

// DefaultBaseScenarioName labels the unmodified input
const DefaultBaseScenarioName = "base"

// ErrInvalidVariant marks a variant list that cannot be compared as given
var ErrInvalidVariant = errors.New("invalid variant")

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	Validator         *validation.Validator
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		Validator:         validation.Default(),
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string    // Label for the unmodified input
	Variants         []Variant // Alternatives to evaluate against the base
}

// Compare validates and computes the base input and every variant. A variant
// that fails validation or computation aborts the comparison with an error
// naming the variant.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base map[string]any,
	options CompareOptions,
) (*ComparisonSet, error) {

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = DefaultBaseScenarioName
	}

	canonicalBase := validation.Canonical(base)

	baseResult, err := ce.evaluate(baseName, canonicalBase)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	seen := map[string]bool{baseName: true}

	for _, variant := range options.Variants {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if variant.Name == "" {
			return nil, fmt.Errorf("%w: variant %d has no name", ErrInvalidVariant, len(alternatives)+1)
		}
		if seen[variant.Name] {
			return nil, fmt.Errorf("%w: duplicate scenario name %s", ErrInvalidVariant, variant.Name)
		}
		seen[variant.Name] = true

		altResult, err := ce.evaluate(variant.Name, MergeInputs(canonicalBase, variant.Overrides))
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", variant.Name, err)
		}
		altResult.Description = variant.Description
		alt := ce.MetricsCalculator.CalculateComparison(*altResult, *baseResult)

		alternatives = append(alternatives, alt)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         baseResult,
		AlternativeResults: alternatives,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) evaluate(name string, raw map[string]any) (*ComparisonResult, error) {
	req, err := ce.validator().Affordability(raw)
	if err != nil {
		return nil, err
	}
	result, err := ce.CalcEngine.ComputeAffordability(*req)
	if err != nil {
		return nil, err
	}
	metrics := ce.MetricsCalculator.CalculateMetrics(name, req, result)
	return &metrics, nil
}

func (ce *CompareEngine) validator() *validation.Validator {
	if ce.Validator == nil {
		return validation.Default()
	}
	return ce.Validator
}

// MergeInputs overlays overrides on base without modifying either map
func MergeInputs(base, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range validation.Canonical(overrides) {
		merged[k] = v
	}
	return merged
}

// RateTermGrid builds one variant per rate and term combination. An empty
// list keeps the base value for that dimension.
func RateTermGrid(rates []decimal.Decimal, terms []int) []Variant {
	var variants []Variant

	switch {
	case len(rates) == 0 && len(terms) == 0:
		return variants
	case len(terms) == 0:
		for _, rate := range rates {
			variants = append(variants, Variant{
				Name:      rate.String() + "%",
				Overrides: map[string]any{"annualInterestRatePct": rate},
			})
		}
	case len(rates) == 0:
		for _, term := range terms {
			variants = append(variants, Variant{
				Name:      fmt.Sprintf("%dm", term),
				Overrides: map[string]any{"loanTermMonths": term},
			})
		}
	default:
		for _, rate := range rates {
			for _, term := range terms {
				variants = append(variants, Variant{
					Name: fmt.Sprintf("%s%%/%dm", rate.String(), term),
					Overrides: map[string]any{
						"annualInterestRatePct": rate,
						"loanTermMonths":        term,
					},
				})
			}
		}
	}

	return variants
}
