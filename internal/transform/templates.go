package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Loan shape
	registry.Register(Template{
		Name:        "15yr",
		Description: "Use a 15-year term",
		Transforms:  []ScenarioTransform{&SetTerm{Months: 180}},
	})

	registry.Register(Template{
		Name:        "20yr",
		Description: "Use a 20-year term",
		Transforms:  []ScenarioTransform{&SetTerm{Months: 240}},
	})

	registry.Register(Template{
		Name:        "30yr",
		Description: "Use a 30-year term",
		Transforms:  []ScenarioTransform{&SetTerm{Months: 360}},
	})

	// Rate movement
	registry.Register(Template{
		Name:        "rate_down_half",
		Description: "Rate falls by 0.5 points (e.g. buying points)",
		Transforms:  []ScenarioTransform{&ShiftRate{DeltaPct: decimal.RequireFromString("-0.5")}},
	})

	registry.Register(Template{
		Name:        "rate_down_1",
		Description: "Rate falls by 1 point",
		Transforms:  []ScenarioTransform{&ShiftRate{DeltaPct: decimal.NewFromInt(-1)}},
	})

	registry.Register(Template{
		Name:        "rate_up_1",
		Description: "Rate rises by 1 point before locking",
		Transforms:  []ScenarioTransform{&ShiftRate{DeltaPct: decimal.NewFromInt(1)}},
	})

	// Lending guidelines
	registry.Register(Template{
		Name:        "fha_ceilings",
		Description: "FHA-style 31%/43% DTI ceilings",
		Transforms: []ScenarioTransform{
			&SetDTICeilings{FrontEnd: decimal.RequireFromString("0.31"), BackEnd: decimal.RequireFromString("0.43")},
		},
	})

	registry.Register(Template{
		Name:        "strict_ceilings",
		Description: "Conservative 25%/33% DTI ceilings",
		Transforms: []ScenarioTransform{
			&SetDTICeilings{FrontEnd: decimal.RequireFromString("0.25"), BackEnd: decimal.RequireFromString("0.33")},
		},
	})

	// Budget
	registry.Register(Template{
		Name:        "pay_off_debts",
		Description: "Pay off all monthly non-housing debts",
		Transforms:  []ScenarioTransform{&AdjustDebts{DeltaMonthly: decimal.NewFromInt(-1_000_000)}},
	})

	registry.Register(Template{
		Name:        "hoa_300",
		Description: "Buy into a community with $300/month HOA dues",
		Transforms:  []ScenarioTransform{&SetHOA{Monthly: decimal.NewFromInt(300)}},
	})

	registry.Register(Template{
		Name:        "raise_10pct",
		Description: "Income rises by 10%",
		Transforms:  []ScenarioTransform{&ScaleIncome{Pct: decimal.NewFromInt(10)}},
	})

	// Combinations
	registry.Register(Template{
		Name:        "15yr_rate_down_half",
		Description: "15-year term at a 0.5 point lower rate",
		Transforms: []ScenarioTransform{
			&SetTerm{Months: 180},
			&ShiftRate{DeltaPct: decimal.RequireFromString("-0.5")},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base request
func ApplyTemplate(base domain.AffordabilityRequest, template Template) (domain.AffordabilityRequest, error) {
	if len(template.Transforms) == 0 {
		return base, nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ToVariant applies a template to base and expresses the outcome as a
// comparison variant whose overrides hold only the fields that changed.
func ToVariant(base domain.AffordabilityRequest, template Template) (compare.Variant, error) {
	modified, err := ApplyTemplate(base, template)
	if err != nil {
		return compare.Variant{}, err
	}
	return compare.Variant{
		Name:        template.Name,
		Description: template.Description,
		Overrides:   Diff(base, modified),
	}, nil
}

// Diff returns the wire-named fields of modified that differ from base
func Diff(base, modified domain.AffordabilityRequest) map[string]any {
	overrides := map[string]any{}

	decimals := []struct {
		key      string
		from, to decimal.Decimal
	}{
		{"annualIncome", base.AnnualIncome, modified.AnnualIncome},
		{"monthlyDebts", base.MonthlyDebts, modified.MonthlyDebts},
		{"downPayment", base.DownPayment, modified.DownPayment},
		{"annualInterestRatePct", base.AnnualInterestRatePct, modified.AnnualInterestRatePct},
		{"propertyTaxAnnual", base.PropertyTaxAnnual, modified.PropertyTaxAnnual},
		{"homeInsuranceAnnual", base.HomeInsuranceAnnual, modified.HomeInsuranceAnnual},
		{"hoaMonthly", base.HOAMonthly, modified.HOAMonthly},
		{"maxFrontEndDTI", base.MaxFrontEndDTI, modified.MaxFrontEndDTI},
		{"maxBackEndDTI", base.MaxBackEndDTI, modified.MaxBackEndDTI},
	}
	for _, f := range decimals {
		if !f.from.Equal(f.to) {
			overrides[f.key] = f.to
		}
	}
	if base.LoanTermMonths != modified.LoanTermMonths {
		overrides["loanTermMonths"] = modified.LoanTermMonths
	}

	return overrides
}

// Variants resolves template names against the registry and converts each to
// a comparison variant. An unknown name is reported with the available list.
func (tr *TemplateRegistry) Variants(base domain.AffordabilityRequest, names []string) ([]compare.Variant, error) {
	variants := make([]compare.Variant, 0, len(names))
	for _, name := range names {
		template, ok := tr.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown template %q (available: %s)",
				compare.ErrInvalidVariant, name, strings.Join(tr.List(), ", "))
		}
		variant, err := ToVariant(base, template)
		if err != nil {
			return nil, fmt.Errorf("%w: template %s: %v", compare.ErrInvalidVariant, template.Name, err)
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		template := registry.templates[name]
		categories[category(template)] = append(categories[category(template)], template)
	}

	for _, c := range []string{"Loan Term", "Interest Rate", "Lending Guidelines", "Budget", "Combination Strategies"} {
		templates := categories[c]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", c))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  mortgo compare borrower.yaml --with 15yr,rate_down_half\n")
	sb.WriteString("  mortgo compare borrower.yaml --transform shift_rate:delta=-0.25\n")

	return sb.String()
}

func category(t Template) string {
	if len(t.Transforms) != 1 {
		return "Combination Strategies"
	}
	switch t.Transforms[0].(type) {
	case *SetTerm:
		return "Loan Term"
	case *ShiftRate, *SetRate:
		return "Interest Rate"
	case *SetDTICeilings:
		return "Lending Guidelines"
	default:
		return "Budget"
	}
}
