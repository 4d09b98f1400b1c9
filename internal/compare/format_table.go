package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("MORTGAGE AFFORDABILITY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.Source != "" {
		sb.WriteString(fmt.Sprintf("Input: %s\n", compSet.Source))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 12

	// Table header
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		7, "Rate",
		5, "Term",
		numWidth, "Max Price",
		numWidth, "Max Loan",
		numWidth, "P&I",
		numWidth, "Interest"))
	sb.WriteString(strings.Repeat("-", 88) + "\n")

	// Base scenario row
	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	// Alternative scenarios
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 88) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Max Home Price:   %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.PriceDiffFromBase),
				tf.formatDecimal(alt.PriceDiffFromBase),
				alt.PricePctFromBase.StringFixed(1)))

			if !alt.PaymentDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Monthly P&I:      %s$%s\n",
					tf.deltaSymbol(alt.PaymentDiffFromBase),
					alt.PaymentDiffFromBase.StringFixed(2)))
			}

			if !alt.InterestDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Total Interest:   %s$%s\n",
					tf.deltaSymbol(alt.InterestDiffFromBase),
					tf.formatDecimal(alt.InterestDiffFromBase)))
			}

			if alt.BindingConstraint != compSet.BaseResult.BindingConstraint {
				sb.WriteString(fmt.Sprintf("  Binding:          %s (base %s)\n",
					alt.BindingConstraint, compSet.BaseResult.BindingConstraint))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		7, result.AnnualInterestRatePct.StringFixed(3)+"%",
		5, formatInt(result.LoanTermMonths),
		numWidth, "$"+tf.formatDecimal(result.MaxHomePrice),
		numWidth, "$"+tf.formatDecimal(result.MaxLoanAmount),
		numWidth, "$"+result.MonthlyPrincipalAndInterest.StringFixed(2),
		numWidth, "$"+tf.formatDecimal(result.TotalInterest))
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		// Format in millions
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		// Format in thousands
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns "+" for gains; negative values carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return ""
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s ($%s) | ", compSet.BaseScenarioName, tf.formatDecimal(compSet.BaseResult.MaxHomePrice)))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		priceChange := "="
		if alt.PriceDiffFromBase.IsPositive() {
			priceChange = fmt.Sprintf("+$%s", tf.formatDecimal(alt.PriceDiffFromBase))
		} else if alt.PriceDiffFromBase.IsNegative() {
			priceChange = fmt.Sprintf("-$%s", tf.formatDecimal(alt.PriceDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, priceChange))
	}

	return sb.String()
}
