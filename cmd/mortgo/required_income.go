package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/breakeven"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

func requiredIncomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "required-income [input-file]",
		Short: "Find the income needed to afford a target home price",
		Long: `Find the smallest annual income that affords a target home price with the
rest of the borrower profile held fixed. Annual income in the file is ignored.

Several prices produce a ladder of required incomes. With --max-rate the file's
income is kept and the command instead finds the highest interest rate at which
the target price is still affordable.

Examples:
  mortgo required-income borrower.yaml --price 450000
  mortgo required-income borrower.yaml --price 350000,450000,550000
  mortgo required-income borrower.yaml --price 450000 --max-rate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			input, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			priceStrs, _ := cmd.Flags().GetStringSlice("price")
			targets := make([]any, 0, len(priceStrs))
			for _, p := range priceStrs {
				if p = strings.TrimSpace(p); p != "" {
					targets = append(targets, p)
				}
			}

			solver := breakeven.NewDefaultSolver(newEngine(cmd))
			format, _ := cmd.Flags().GetString("format")
			maxRate, _ := cmd.Flags().GetBool("max-rate")

			var result any
			var table string
			tf := &breakeven.TableFormatter{}

			switch {
			case maxRate:
				raw := make(map[string]any, len(input.Request)+1)
				for k, v := range input.Request {
					raw[k] = v
				}
				if len(targets) > 1 {
					return fmt.Errorf("--max-rate takes a single --price")
				}
				if len(targets) == 1 {
					raw["targetHomePrice"] = targets[0]
				}

				req, target, err := validation.Default().MaxRate(raw)
				if err != nil {
					return err
				}
				search, err := solver.MaxRate(cmd.Context(), breakeven.RateSearchRequest{Request: *req, TargetHomePrice: target})
				if err != nil {
					return err
				}
				result, table = search, tf.FormatRateSearch(search)

			default:
				requests, err := parser.RequiredIncomeRequests(input, targets)
				if err != nil {
					return err
				}

				if len(requests) == 1 {
					single, err := solver.RequiredIncome(cmd.Context(), requests[0])
					if err != nil {
						return err
					}
					result, table = single, tf.FormatRequiredIncome(single)
					break
				}

				prices := make([]decimal.Decimal, len(requests))
				for i, r := range requests {
					prices[i] = r.TargetHomePrice
				}
				ladder, err := solver.RequiredIncomeLadder(cmd.Context(), requests[0].Profile, prices)
				if err != nil {
					return err
				}
				result, table = ladder, tf.FormatLadder(ladder)
			}

			switch strings.ToLower(format) {
			case "json":
				jf := &breakeven.JSONFormatter{Pretty: true}
				out, err := jf.Format(result)
				if err != nil {
					return fmt.Errorf("failed to format json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			case "table", "console", "":
				fmt.Fprint(cmd.OutOrStdout(), table)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("price", nil, "Target home price(s); defaults to target_home_prices or targetHomePrice in the file")
	cmd.Flags().Bool("max-rate", false, "Solve for the highest affordable rate instead of income")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	return cmd
}
