package breakeven

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// FormatRequiredIncome generates a report for a required income result
func (tf *TableFormatter) FormatRequiredIncome(result *domain.RequiredIncomeResult) string {
	var sb strings.Builder

	sb.WriteString("REQUIRED INCOME\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Target Home Price:      $%s\n", tf.formatCurrency(result.TargetHomePrice)))
	sb.WriteString(fmt.Sprintf("Loan Needed:            $%s\n", tf.formatCurrency(result.RequiredLoanAmount)))
	sb.WriteString(fmt.Sprintf("Required Annual Income: $%s\n", tf.formatCurrency(result.RequiredAnnualIncome)))
	sb.WriteString(fmt.Sprintf("Binding Constraint:     %s\n", result.BindingConstraint))
	sb.WriteString("\n")

	if a := result.Affordability; a != nil {
		sb.WriteString("AT THAT INCOME\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Max Home Price:         $%s\n", tf.formatCurrency(a.MaxHomePrice)))
		sb.WriteString(fmt.Sprintf("Monthly P&I:            $%s\n", tf.formatCurrency(a.MonthlyPrincipalAndInterest)))
		sb.WriteString(fmt.Sprintf("Monthly Housing Cost:   $%s\n", tf.formatCurrency(a.TotalMonthlyHousingCost)))
		sb.WriteString(fmt.Sprintf("Front-End DTI:          %s%%\n", tf.formatPercent(a.FrontEndDTI)))
		sb.WriteString(fmt.Sprintf("Back-End DTI:           %s%%\n", tf.formatPercent(a.BackEndDTI)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatRateSearch generates a report for a rate search result
func (tf *TableFormatter) FormatRateSearch(result *RateSearchResult) string {
	var sb strings.Builder

	sb.WriteString("MAXIMUM AFFORDABLE RATE\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Target Home Price: $%s\n", tf.formatCurrency(result.TargetHomePrice)))
	sb.WriteString(fmt.Sprintf("Maximum Rate:      %s%%\n", result.MaxRatePct.StringFixed(3)))
	sb.WriteString(fmt.Sprintf("Iterations:        %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:       %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatLadder formats required incomes for several target prices
func (tf *TableFormatter) FormatLadder(result *LadderResult) string {
	var sb strings.Builder

	sb.WriteString("REQUIRED INCOME BY TARGET PRICE\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("%-16s %16s %16s %-10s %10s\n",
		"Target Price", "Loan", "Income", "Binding", "Step"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	steps := result.IncomeStep()
	for i, rung := range result.Rungs {
		step := ""
		if i > 0 {
			step = tf.deltaSymbol(steps[i]) + "$" + tf.formatShort(steps[i])
		}
		sb.WriteString(fmt.Sprintf("%-16s %16s %16s %-10s %10s\n",
			"$"+tf.formatCurrency(rung.TargetHomePrice),
			"$"+tf.formatCurrency(rung.RequiredLoanAmount),
			"$"+tf.formatCurrency(rung.RequiredAnnualIncome),
			rung.BindingConstraint,
			step))
	}
	sb.WriteString("\n")

	if len(result.Failed) > 0 {
		sb.WriteString("UNSOLVED\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		prices := make([]string, 0, len(result.Failed))
		for price := range result.Failed {
			prices = append(prices, price)
		}
		sort.Strings(prices)
		for _, price := range prices {
			sb.WriteString(fmt.Sprintf("$%s: %s\n", price, result.Failed[price]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any solver result
func (jf *JSONFormatter) Format(result interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return ""
	}
	return " "
}
