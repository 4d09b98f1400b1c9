package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

const labelWidth = 28

// ConsoleFormatter prints the headline numbers only.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	res := report.Result
	var buf bytes.Buffer

	fmt.Fprintln(&buf, TitleStyle.Render("MORTGAGE AFFORDABILITY SUMMARY"))
	fmt.Fprintln(&buf, strings.Repeat("=", 50))
	fmt.Fprintln(&buf, metricLine("Max Home Price:", FormatCurrency(res.MaxHomePrice), labelWidth))
	fmt.Fprintln(&buf, metricLine("Max Loan Amount:", FormatCurrency(res.MaxLoanAmount), labelWidth))
	fmt.Fprintln(&buf, metricLine("Monthly Principal & Interest:", FormatCurrency(res.MonthlyPrincipalAndInterest), labelWidth))
	fmt.Fprintln(&buf, metricLine("Monthly Housing Cost:", FormatCurrency(res.TotalMonthlyHousingCost), labelWidth))
	fmt.Fprintln(&buf, metricLine("Binding Constraint:", string(res.BindingConstraint), labelWidth))
	if res.IsZeroLoan() {
		fmt.Fprintln(&buf, WarningStyle.Render("No loan is affordable under these ceilings."))
	}

	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter renders the detailed console report with inputs,
// ceilings, totals and the annual amortization summary.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	req := report.Request
	res := report.Result
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, TitleStyle.Render("DETAILED MORTGAGE AFFORDABILITY ANALYSIS"))
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, SectionStyle.Render("KEY ASSUMPTIONS"))
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, SectionStyle.Render("BORROWER INPUTS"))
	fmt.Fprintln(&buf, metricLine("Annual Income:", FormatCurrency(req.AnnualIncome), labelWidth))
	fmt.Fprintln(&buf, metricLine("Monthly Debts:", FormatCurrency(req.MonthlyDebts), labelWidth))
	fmt.Fprintln(&buf, metricLine("Down Payment:", FormatCurrency(req.DownPayment), labelWidth))
	fmt.Fprintln(&buf, metricLine("Interest Rate:", FormatPercentage(req.AnnualInterestRatePct), labelWidth))
	fmt.Fprintln(&buf, metricLine("Term:", fmt.Sprintf("%d months", req.LoanTermMonths), labelWidth))
	fmt.Fprintln(&buf, metricLine("DTI Ceilings (front/back):",
		FormatRatio(req.MaxFrontEndDTI)+" / "+FormatRatio(req.MaxBackEndDTI), labelWidth))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, SectionStyle.Render("MONTHLY BUDGET"))
	fmt.Fprintln(&buf, metricLine("Front-End Housing Ceiling:", FormatCurrency(res.MaxHousingPaymentFrontEnd), labelWidth))
	fmt.Fprintln(&buf, metricLine("Back-End Housing Ceiling:", FormatCurrency(res.MaxHousingPaymentBackEnd), labelWidth))
	fmt.Fprintln(&buf, metricLine("Escrow (tax/ins/HOA):", FormatCurrency(res.MonthlyEscrow), labelWidth))
	fmt.Fprintln(&buf, metricLine("Max Principal & Interest:", FormatCurrency(res.MaxPrincipalAndInterestPayment), labelWidth))
	fmt.Fprintln(&buf, metricLine("Binding Constraint:", BindingStyle.Render(string(res.BindingConstraint)), labelWidth))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, SectionStyle.Render("RESULT"))
	fmt.Fprintln(&buf, metricLine("Max Home Price:", FormatCurrency(res.MaxHomePrice), labelWidth))
	fmt.Fprintln(&buf, metricLine("Max Loan Amount:", FormatCurrency(res.MaxLoanAmount), labelWidth))
	fmt.Fprintln(&buf, metricLine("Monthly P&I:", FormatCurrency(res.MonthlyPrincipalAndInterest), labelWidth))
	fmt.Fprintln(&buf, metricLine("Total Monthly Housing:", FormatCurrency(res.TotalMonthlyHousingCost), labelWidth))
	fmt.Fprintln(&buf, metricLine("Front-End DTI:", FormatRatio(res.FrontEndDTI), labelWidth))
	fmt.Fprintln(&buf, metricLine("Back-End DTI:", FormatRatio(res.BackEndDTI), labelWidth))
	fmt.Fprintln(&buf, metricLine("Total Paid:", FormatCurrency(res.TotalPaid), labelWidth))
	fmt.Fprintln(&buf, metricLine("Total Interest:", FormatCurrency(res.TotalInterest), labelWidth))
	if res.IsZeroLoan() {
		fmt.Fprintln(&buf, WarningStyle.Render("Debts and escrow consume the whole budget; no loan is affordable."))
	}
	fmt.Fprintln(&buf)

	writeAnnualSummary(&buf, res.AnnualSummary)

	return buf.Bytes(), nil
}

func writeAnnualSummary(buf *bytes.Buffer, rows []domain.AnnualAmortization) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(buf, SectionStyle.Render("ANNUAL AMORTIZATION"))
	fmt.Fprintf(buf, "%-6s %14s %14s %16s\n", "Year", "Principal", "Interest", "Ending Balance")
	fmt.Fprintln(buf, strings.Repeat("-", 53))
	for _, row := range rows {
		fmt.Fprintf(buf, "%-6d %14s %14s %16s\n",
			row.Year,
			FormatCurrency(row.Principal),
			FormatCurrency(row.Interest),
			FormatCurrency(row.EndingBalance))
	}
	principal, interest := decimal.Zero, decimal.Zero
	for _, row := range rows {
		principal = principal.Add(row.Principal)
		interest = interest.Add(row.Interest)
	}
	fmt.Fprintln(buf, strings.Repeat("-", 53))
	fmt.Fprintf(buf, "%-6s %14s %14s\n", "Total", FormatCurrency(principal), FormatCurrency(interest))
}
