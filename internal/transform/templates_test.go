package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/compare"
)

func TestTemplateRegistry(t *testing.T) {
	registry := CreateBuiltInTemplates()

	names := registry.List()
	if len(names) != 12 {
		t.Errorf("Expected 12 templates, got %d: %v", len(names), names)
	}

	template, ok := registry.Get("FHA_Ceilings")
	if !ok {
		t.Fatal("Expected case-insensitive lookup")
	}
	if template.Name != "fha_ceilings" {
		t.Errorf("Unexpected template %s", template.Name)
	}
	if _, ok := registry.Get("postpone_1yr"); ok {
		t.Error("Expected unknown template to be missing")
	}
}

func TestApplyTemplate(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestRequest()

	template, _ := registry.Get("15yr_rate_down_half")
	got, err := ApplyTemplate(base, template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.LoanTermMonths != 180 || !got.AnnualInterestRatePct.Equal(d("5.5")) {
		t.Errorf("Unexpected result %+v", got)
	}

	got, err = ApplyTemplate(base, Template{Name: "noop"})
	if err != nil || got != base {
		t.Errorf("Expected empty template to return base, got %+v, %v", got, err)
	}
}

func TestToVariant(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestRequest()

	template, _ := registry.Get("pay_off_debts")
	variant, err := ToVariant(base, template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if variant.Name != "pay_off_debts" || variant.Description == "" {
		t.Errorf("Unexpected variant %+v", variant)
	}
	if len(variant.Overrides) != 1 {
		t.Fatalf("Expected a single override, got %v", variant.Overrides)
	}
	if debts, ok := variant.Overrides["monthlyDebts"].(decimal.Decimal); !ok || !debts.IsZero() {
		t.Errorf("Expected zero debts override, got %v", variant.Overrides["monthlyDebts"])
	}

	template, _ = registry.Get("15yr")
	variant, _ = ToVariant(base, template)
	if variant.Overrides["loanTermMonths"] != 180 {
		t.Errorf("Expected term override, got %v", variant.Overrides)
	}

	_, err = ToVariant(base, Template{Name: "bad", Transforms: []ScenarioTransform{&SetTerm{}}})
	if err == nil {
		t.Error("Expected error from invalid transform")
	}
}

func TestTemplateVariants(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestRequest()

	variants, err := registry.Variants(base, []string{"rate_down_1", "FHA_CEILINGS"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(variants) != 2 || variants[1].Name != "fha_ceilings" {
		t.Errorf("Unexpected variants %+v", variants)
	}

	_, err = registry.Variants(base, []string{"nope"})
	if !errors.Is(err, compare.ErrInvalidVariant) {
		t.Fatalf("Expected ErrInvalidVariant, got %v", err)
	}
	if !strings.Contains(err.Error(), "15yr") {
		t.Errorf("Expected available templates in error, got %v", err)
	}
}

func TestTemplatesFeedComparison(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestRequest()

	variants, err := registry.Variants(base, []string{"pay_off_debts", "rate_up_1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	engine := compare.NewCompareEngine(calculation.NewEngine())
	compSet, err := engine.Compare(context.Background(), map[string]any{
		"annualIncome":          120000,
		"monthlyDebts":          500,
		"downPayment":           40000,
		"annualInterestRatePct": 6,
		"loanTermMonths":        360,
		"propertyTaxAnnual":     3600,
		"homeInsuranceAnnual":   1200,
	}, compare.CompareOptions{Variants: variants})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Front-end already binds, so clearing debts leaves the price unchanged.
	if !compSet.AlternativeResults[0].PriceDiffFromBase.IsZero() {
		t.Errorf("Expected no price change from paying off debts, got %s", compSet.AlternativeResults[0].PriceDiffFromBase)
	}
	if !compSet.AlternativeResults[1].PriceDiffFromBase.IsNegative() {
		t.Errorf("Expected a higher rate to lower the price, got %s", compSet.AlternativeResults[1].PriceDiffFromBase)
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"15yr", []string{"15yr"}},
		{" 15yr , rate_up_1,,", []string{"15yr", "rate_up_1"}},
	}
	for _, tt := range tests {
		got := ParseTemplateList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTemplateList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTemplateList(%q)[%d] = %s, want %s", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{"Loan Term:", "Interest Rate:", "Lending Guidelines:", "Budget:", "Combination Strategies:", "15yr_rate_down_half", "mortgo compare"} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}

	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Expected empty-registry message")
	}
}
