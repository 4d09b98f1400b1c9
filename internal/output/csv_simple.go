package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVSummarizer implements the single-row summary CSV output.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	res := report.Result
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"MaxLoanAmount", "MaxHomePrice", "MonthlyPrincipalAndInterest", "MonthlyEscrow", "TotalMonthlyHousingCost", "FrontEndDTI", "BackEndDTI", "BindingConstraint", "TotalPaid", "TotalInterest"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	row := []string{
		res.MaxLoanAmount.StringFixed(2),
		res.MaxHomePrice.StringFixed(2),
		res.MonthlyPrincipalAndInterest.StringFixed(2),
		res.MonthlyEscrow.StringFixed(2),
		res.TotalMonthlyHousingCost.StringFixed(2),
		res.FrontEndDTI.StringFixed(4),
		res.BackEndDTI.StringFixed(4),
		string(res.BindingConstraint),
		res.TotalPaid.StringFixed(2),
		res.TotalInterest.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ScheduleCSVFormatter writes one row per amortization period.
type ScheduleCSVFormatter struct{}

func (s ScheduleCSVFormatter) Name() string { return "schedule-csv" }

func (s ScheduleCSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Period", "Payment", "Principal", "Interest", "RemainingBalance"}); err != nil {
		return nil, err
	}
	for _, e := range report.Result.AmortizationSchedule {
		row := []string{
			strconv.Itoa(e.Period),
			e.Payment.StringFixed(2),
			e.Principal.StringFixed(2),
			e.Interest.StringFixed(2),
			e.RemainingBalance.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
