package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	header := []string{
		"Scenario",
		"Type",
		"Rate %",
		"Term (Months)",
		"Down Payment",
		"Max Loan",
		"Max Home Price",
		"Monthly P&I",
		"Monthly Housing",
		"Total Interest",
		"Binding Constraint",
		"Price Diff from Base",
		"Price % Change",
		"Payment Diff from Base",
		"Interest Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	// Write base scenario
	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	// Write alternative scenarios
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.AnnualInterestRatePct.String(),
		formatInt(result.LoanTermMonths),
		result.DownPayment.StringFixed(2),
		result.MaxLoanAmount.StringFixed(2),
		result.MaxHomePrice.StringFixed(2),
		result.MonthlyPrincipalAndInterest.StringFixed(2),
		result.TotalMonthlyHousingCost.StringFixed(2),
		result.TotalInterest.StringFixed(2),
		string(result.BindingConstraint),
		result.PriceDiffFromBase.StringFixed(2),
		result.PricePctFromBase.StringFixed(2),
		result.PaymentDiffFromBase.StringFixed(2),
		result.InterestDiffFromBase.StringFixed(2),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
