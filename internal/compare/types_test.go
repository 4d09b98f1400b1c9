package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/domain"
)

func baseInput() map[string]any {
	return map[string]any{
		"annualIncome":          120000,
		"monthlyDebts":          500,
		"downPayment":           40000,
		"annualInterestRatePct": 6,
		"loanTermMonths":        360,
		"propertyTaxAnnual":     3600,
		"homeInsuranceAnnual":   1200,
	}
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		MaxHomePrice:                mustDecimal("440299.87"),
		MaxLoanAmount:               mustDecimal("400299.87"),
		MonthlyPrincipalAndInterest: mustDecimal("2400"),
		TotalInterest:               mustDecimal("463700.13"),
	}
	alt := ComparisonResult{
		MaxHomePrice:                mustDecimal("904000"),
		MaxLoanAmount:               mustDecimal("864000"),
		MonthlyPrincipalAndInterest: mustDecimal("2400"),
		TotalInterest:               decimal.Zero,
	}

	result := calc.CalculateComparison(alt, base)

	if !result.PriceDiffFromBase.Equal(mustDecimal("463700.13")) {
		t.Errorf("Expected price diff 463700.13, got %s", result.PriceDiffFromBase)
	}
	if !result.PricePctFromBase.Equal(mustDecimal("105.31")) {
		t.Errorf("Expected 105.31%%, got %s", result.PricePctFromBase)
	}
	if !result.PaymentDiffFromBase.IsZero() {
		t.Errorf("Expected no payment diff, got %s", result.PaymentDiffFromBase)
	}
	if !result.InterestDiffFromBase.Equal(mustDecimal("-463700.13")) {
		t.Errorf("Expected interest diff -463700.13, got %s", result.InterestDiffFromBase)
	}

	zeroBase := ComparisonResult{}
	result = calc.CalculateComparison(alt, zeroBase)
	if !result.PricePctFromBase.IsZero() {
		t.Error("Expected zero percentage against a zero base")
	}
}

func TestCompareEngine_Compare(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())

	compSet, err := engine.Compare(context.Background(), baseInput(), CompareOptions{
		Variants: []Variant{
			{Name: "interest free", Description: "0% promotional rate", Overrides: map[string]any{"annualInterestRatePct": 0}},
			{Name: "heavy debts", Overrides: map[string]any{"monthly_debts": 3500}},
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if compSet.BaseScenarioName != DefaultBaseScenarioName {
		t.Errorf("Expected default base name, got %s", compSet.BaseScenarioName)
	}
	if !compSet.BaseResult.MaxHomePrice.Equal(mustDecimal("440299.87")) {
		t.Errorf("Expected base price 440299.87, got %s", compSet.BaseResult.MaxHomePrice)
	}
	if compSet.BaseResult.Result == nil || len(compSet.BaseResult.Result.AmortizationSchedule) != 360 {
		t.Error("Expected full result to be retained on the base")
	}
	if len(compSet.AlternativeResults) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d", len(compSet.AlternativeResults))
	}

	free := compSet.AlternativeResults[0]
	if free.Description != "0% promotional rate" {
		t.Errorf("Expected description to carry through, got %q", free.Description)
	}
	if !free.MaxLoanAmount.Equal(mustDecimal("864000")) {
		t.Errorf("Expected 864000 loan at zero rate, got %s", free.MaxLoanAmount)
	}
	if !free.PriceDiffFromBase.Equal(mustDecimal("463700.13")) {
		t.Errorf("Expected price diff 463700.13, got %s", free.PriceDiffFromBase)
	}

	debts := compSet.AlternativeResults[1]
	if !debts.MaxLoanAmount.IsZero() {
		t.Errorf("Expected zero loan with heavy debts, got %s", debts.MaxLoanAmount)
	}
	if debts.BindingConstraint != domain.BackEnd {
		t.Errorf("Expected BACK_END, got %s", debts.BindingConstraint)
	}
	if !debts.PricePctFromBase.Equal(mustDecimal("-90.92")) {
		t.Errorf("Expected -90.92%%, got %s", debts.PricePctFromBase)
	}

	if len(compSet.Recommendations) != 3 {
		t.Fatalf("Expected 3 recommendations, got %v", compSet.Recommendations)
	}
	if !contains(compSet.Recommendations[0], "interest free") {
		t.Errorf("Expected interest free to buy the most house, got %s", compSet.Recommendations[0])
	}
	if !contains(compSet.Recommendations[2], "No Loan: heavy debts") {
		t.Errorf("Expected no-loan warning, got %s", compSet.Recommendations[2])
	}
}

func TestCompareEngine_Compare_Errors(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())

	bad := baseInput()
	delete(bad, "annualIncome")
	_, err := engine.Compare(context.Background(), bad, CompareOptions{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error for base, got %v", err)
	}

	_, err = engine.Compare(context.Background(), baseInput(), CompareOptions{
		Variants: []Variant{{Name: "long", Overrides: map[string]any{"loanTermMonths": 5000}}},
	})
	if !errors.Is(err, domain.ErrTermTooLarge) {
		t.Fatalf("Expected TERM_TOO_LARGE, got %v", err)
	}
	if !contains(err.Error(), "long") {
		t.Errorf("Expected variant name in error, got %v", err)
	}

	_, err = engine.Compare(context.Background(), baseInput(), CompareOptions{
		Variants: []Variant{{Name: "base"}},
	})
	if !errors.Is(err, ErrInvalidVariant) || !contains(err.Error(), "duplicate") {
		t.Errorf("Expected duplicate name error, got %v", err)
	}

	_, err = engine.Compare(context.Background(), baseInput(), CompareOptions{
		Variants: []Variant{{Overrides: map[string]any{"downPayment": 1}}},
	})
	if !errors.Is(err, ErrInvalidVariant) {
		t.Errorf("Expected error for unnamed variant, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Compare(ctx, baseInput(), CompareOptions{
		Variants: RateTermGrid([]decimal.Decimal{mustDecimal("5")}, nil),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestMergeInputs(t *testing.T) {
	base := map[string]any{"annualIncome": 1, "loanTermMonths": 360}
	overrides := map[string]any{"loan_term_months": 180}

	merged := MergeInputs(base, overrides)

	if merged["loanTermMonths"] != 180 {
		t.Errorf("Expected override to replace base term, got %v", merged["loanTermMonths"])
	}
	if _, ok := merged["loan_term_months"]; ok {
		t.Error("Expected alias to be canonicalized")
	}
	if base["loanTermMonths"] != 360 {
		t.Error("Expected base to be left unmodified")
	}
}

func TestRateTermGrid(t *testing.T) {
	rates := []decimal.Decimal{mustDecimal("5.5"), mustDecimal("6.5")}
	terms := []int{180, 360}

	grid := RateTermGrid(rates, terms)
	if len(grid) != 4 {
		t.Fatalf("Expected 4 variants, got %d", len(grid))
	}
	if grid[0].Name != "5.5%/180m" || grid[3].Name != "6.5%/360m" {
		t.Errorf("Unexpected names %s, %s", grid[0].Name, grid[3].Name)
	}
	if grid[1].Overrides["loanTermMonths"] != 360 {
		t.Errorf("Unexpected term override %v", grid[1].Overrides)
	}

	if got := RateTermGrid(rates, nil); len(got) != 2 || got[0].Name != "5.5%" {
		t.Errorf("Unexpected rate-only grid %v", got)
	}
	if got := RateTermGrid(nil, terms); len(got) != 2 || got[1].Name != "360m" {
		t.Errorf("Unexpected term-only grid %v", got)
	}
	if got := RateTermGrid(nil, nil); len(got) != 0 {
		t.Errorf("Expected empty grid, got %v", got)
	}
}

func TestGenerateRecommendations_NoAlternatives(t *testing.T) {
	compSet := &ComparisonSet{BaseResult: &ComparisonResult{ScenarioName: "base"}}
	if recs := GenerateRecommendations(compSet); len(recs) != 0 {
		t.Errorf("Expected no recommendations, got %v", recs)
	}
}
