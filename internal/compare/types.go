package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// Variant is a named set of input overrides applied on top of the base input
type Variant struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Overrides   map[string]any `json:"overrides" yaml:"overrides"`
}

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                      `json:"scenarioName"`
	Description  string                      `json:"description,omitempty"`
	Result       *domain.AffordabilityResult `json:"-"`

	// Inputs that most often differ between scenarios
	AnnualInterestRatePct decimal.Decimal `json:"annualInterestRatePct"`
	LoanTermMonths        int             `json:"loanTermMonths"`
	DownPayment           decimal.Decimal `json:"downPayment"`

	// Key Metrics
	MaxLoanAmount               decimal.Decimal          `json:"maxLoanAmount"`
	MaxHomePrice                decimal.Decimal          `json:"maxHomePrice"`
	MonthlyPrincipalAndInterest decimal.Decimal          `json:"monthlyPrincipalAndInterest"`
	TotalMonthlyHousingCost     decimal.Decimal          `json:"totalMonthlyHousingCost"`
	TotalInterest               decimal.Decimal          `json:"totalInterest"`
	BindingConstraint           domain.BindingConstraint `json:"bindingConstraint"`

	// Comparison to Base
	PriceDiffFromBase    decimal.Decimal `json:"priceDiffFromBase"`
	PricePctFromBase     decimal.Decimal `json:"pricePctFromBase"`
	LoanDiffFromBase     decimal.Decimal `json:"loanDiffFromBase"`
	PaymentDiffFromBase  decimal.Decimal `json:"paymentDiffFromBase"`
	InterestDiffFromBase decimal.Decimal `json:"interestDiffFromBase"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source,omitempty"`
}

// MetricsCalculator extracts key metrics from affordability results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one scenario
func (mc *MetricsCalculator) CalculateMetrics(name string, req *domain.AffordabilityRequest, result *domain.AffordabilityResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:                name,
		Result:                      result,
		AnnualInterestRatePct:       req.AnnualInterestRatePct,
		LoanTermMonths:              req.LoanTermMonths,
		DownPayment:                 req.DownPayment,
		MaxLoanAmount:               result.MaxLoanAmount,
		MaxHomePrice:                result.MaxHomePrice,
		MonthlyPrincipalAndInterest: result.MonthlyPrincipalAndInterest,
		TotalMonthlyHousingCost:     result.TotalMonthlyHousingCost,
		TotalInterest:               result.TotalInterest,
		BindingConstraint:           result.BindingConstraint,
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.PriceDiffFromBase = scenario.MaxHomePrice.Sub(base.MaxHomePrice)

	if !base.MaxHomePrice.IsZero() {
		scenario.PricePctFromBase = scenario.PriceDiffFromBase.
			Mul(decimal.NewFromInt(100)).
			DivRound(base.MaxHomePrice, 2)
	}

	scenario.LoanDiffFromBase = scenario.MaxLoanAmount.Sub(base.MaxLoanAmount)
	scenario.PaymentDiffFromBase = scenario.MonthlyPrincipalAndInterest.Sub(base.MonthlyPrincipalAndInterest)
	scenario.InterestDiffFromBase = scenario.TotalInterest.Sub(base.TotalInterest)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find the scenario that buys the most house
	bestPrice := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MaxHomePrice.GreaterThan(bestPrice.MaxHomePrice) {
			bestPrice = alt
		}
	}

	if bestPrice != compSet.BaseResult {
		priceDiff := bestPrice.MaxHomePrice.Sub(compSet.BaseResult.MaxHomePrice)
		recommendations = append(recommendations,
			"Most Purchasing Power: "+bestPrice.ScenarioName+" affords $"+priceDiff.StringFixed(0)+
				" more home than the base scenario")
	}

	// Find lowest lifetime interest, ignoring scenarios that cannot borrow
	lowestInterest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MaxLoanAmount.IsZero() {
			continue
		}
		if lowestInterest.MaxLoanAmount.IsZero() || alt.TotalInterest.LessThan(lowestInterest.TotalInterest) {
			lowestInterest = alt
		}
	}

	if lowestInterest != compSet.BaseResult {
		savings := compSet.BaseResult.TotalInterest.Sub(lowestInterest.TotalInterest)
		recommendations = append(recommendations,
			"Least Interest: "+lowestInterest.ScenarioName+" pays $"+savings.StringFixed(0)+
				" less interest over the life of the loan")
	}

	// Flag scenarios where debts leave no room for a mortgage
	for _, alt := range compSet.AlternativeResults {
		if alt.MaxLoanAmount.IsZero() {
			recommendations = append(recommendations,
				fmt.Sprintf("No Loan: %s leaves no room for a mortgage payment (%s ceiling)",
					alt.ScenarioName, alt.BindingConstraint))
		}
	}

	return recommendations
}
