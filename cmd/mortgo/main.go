package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/calculation"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/output"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mortgo",
		Short:         "Mortgage affordability calculator",
		Long:          "Computes the maximum affordable home price under front-end and back-end DTI ceilings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		calculateCmd(),
		validateCmd(),
		paymentCmd(),
		compareCmd(),
		requiredIncomeCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mortgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// newEngine builds an engine that logs to stderr when debug is set
func newEngine(cmd *cobra.Command) *calculation.Engine {
	engine := calculation.NewEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// extensions used when a report is written to a file
var formatExtensions = map[string]string{
	"console":      "txt",
	"console-lite": "txt",
	"csv":          "csv",
	"schedule-csv": "csv",
	"json":         "json",
	"yaml":         "yaml",
	"html":         "html",
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate the maximum affordable home price",
		Long: `Calculate the maximum affordable home price for the borrower in a YAML input file.

Examples:
  mortgo calculate borrower.yaml
  mortgo calculate borrower.yaml --format json
  mortgo calculate borrower.yaml --schedule > schedule.csv
  mortgo calculate borrower.yaml --format html --write`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			req, _, err := parser.LoadRequest(args[0])
			if err != nil {
				return err
			}

			result, err := newEngine(cmd).ComputeAffordability(*req)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			if schedule, _ := cmd.Flags().GetBool("schedule"); schedule {
				format = "schedule-csv"
			}
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown output format: %s (valid: %s)",
					format, strings.Join(output.AvailableFormatterNames(), ", "))
			}

			report := output.NewReport(*req, result)

			if write, _ := cmd.Flags().GetBool("write"); write {
				filename, err := output.WriteFormatted(f, report, formatExtensions[f.Name()])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := f.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, schedule-csv, json, yaml, html)")
	cmd.Flags().Bool("schedule", false, "Print the full amortization schedule as CSV")
	cmd.Flags().Bool("write", false, "Write the report to a timestamped file instead of stdout")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			_, input, err := parser.LoadRequest(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Input file %s is valid", args[0])
			if n := len(input.Compare); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d compare variants)", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func paymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Calculate the level monthly payment for a known loan",
		Long: `Calculate the level monthly payment for a known loan.

Examples:
  mortgo payment --amount 300000 --rate 6.5
  mortgo payment --amount 300000 --rate 6.5 --term 180 --schedule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, _ := cmd.Flags().GetString("amount")
			rate, _ := cmd.Flags().GetString("rate")
			term, _ := cmd.Flags().GetInt("term")

			req, err := validation.ValidatePayment(map[string]any{
				"loanAmount":            amount,
				"annualInterestRatePct": rate,
				"loanTermMonths":        term,
			})
			if err != nil {
				return err
			}

			result, err := newEngine(cmd).ComputePayment(*req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loan Amount:      %s\n", output.FormatCurrency(result.LoanAmount))
			fmt.Fprintf(out, "Rate:             %s%%\n", req.AnnualInterestRatePct.String())
			fmt.Fprintf(out, "Term:             %d months\n", req.LoanTermMonths)
			fmt.Fprintf(out, "Monthly Payment:  %s\n", output.FormatCurrency(result.MonthlyPayment))
			fmt.Fprintf(out, "Total Paid:       %s\n", output.FormatCurrency(result.TotalPaid))
			fmt.Fprintf(out, "Total Interest:   %s\n", output.FormatCurrency(result.TotalInterest))

			if schedule, _ := cmd.Flags().GetBool("schedule"); schedule {
				fmt.Fprintf(out, "\n%6s %12s %12s %12s %14s\n", "Period", "Payment", "Principal", "Interest", "Balance")
				for _, e := range result.AmortizationSchedule {
					fmt.Fprintf(out, "%6d %12s %12s %12s %14s\n", e.Period,
						e.Payment.StringFixed(2), e.Principal.StringFixed(2),
						e.Interest.StringFixed(2), e.RemainingBalance.StringFixed(2))
				}
			}
			return nil
		},
	}

	cmd.Flags().String("amount", "", "Loan amount (required)")
	cmd.Flags().String("rate", "", "Annual interest rate in percent, e.g. 6.5 (required)")
	cmd.Flags().Int("term", 360, "Loan term in months")
	cmd.Flags().Bool("schedule", false, "Print the amortization schedule")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
