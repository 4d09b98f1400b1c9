package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/config"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/transform"
	"github.com/rgehrsitz/mortgo/internal/validation"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare the base input against alternative rates, terms and overrides",
		Long: `Compare a base borrower input against alternatives.

Alternatives come from the compare: list in the input file, from the
--rates and --terms flags, which expand into every rate and term combination,
from built-in templates named with --with, and from --transform chains.

A transform chain joins specs with '+', e.g.
  set_term:years=15+shift_rate:delta=-0.5

Examples:
  mortgo compare borrower.yaml
  mortgo compare borrower.yaml --rates 5.5,6,6.5 --terms 180,360
  mortgo compare borrower.yaml --with 15yr,fha_ceilings --format csv
  mortgo compare borrower.yaml --transform adjust_down_payment:delta=20000
  mortgo compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := transform.CreateBuiltInTemplates()

			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(templates))
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("compare requires an input file")
			}
			inputFile := args[0]

			parser := config.NewInputParser()
			input, err := parser.LoadFromFile(inputFile)
			if err != nil {
				return err
			}

			ratesStr, _ := cmd.Flags().GetString("rates")
			termsStr, _ := cmd.Flags().GetString("terms")
			rates, err := parseRateList(ratesStr)
			if err != nil {
				return err
			}
			terms, err := parseTermList(termsStr)
			if err != nil {
				return err
			}

			variants := append([]compare.Variant{}, input.Compare...)
			variants = append(variants, compare.RateTermGrid(rates, terms)...)

			withStr, _ := cmd.Flags().GetString("with")
			chains, _ := cmd.Flags().GetStringArray("transform")
			if withStr != "" || len(chains) > 0 {
				base, err := validation.Default().Affordability(input.Request)
				if err != nil {
					return err
				}
				extra, err := templates.Variants(*base, transform.ParseTemplateList(withStr))
				if err != nil {
					return err
				}
				variants = append(variants, extra...)

				extra, err = transformVariants(*base, chains)
				if err != nil {
					return err
				}
				variants = append(variants, extra...)
			}

			if len(variants) == 0 {
				return fmt.Errorf("nothing to compare: add compare: entries to %s or pass --rates/--terms/--with/--transform", inputFile)
			}

			baseName, _ := cmd.Flags().GetString("base")
			compareEngine := compare.NewCompareEngine(newEngine(cmd))
			comparisonSet, err := compareEngine.Compare(cmd.Context(), input.Request, compare.CompareOptions{
				BaseScenarioName: baseName,
				Variants:         variants,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			comparisonSet.Source = inputFile

			outputFormat, _ := cmd.Flags().GetString("format")
			var out string
			switch strings.ToLower(outputFormat) {
			case "csv":
				formatter := &compare.CSVFormatter{}
				out, err = formatter.Format(comparisonSet)
			case "json":
				formatter := &compare.JSONFormatter{Pretty: true}
				out, err = formatter.Format(comparisonSet)
				out += "\n"
			case "compact":
				formatter := &compare.TableFormatter{}
				out = formatter.FormatCompact(comparisonSet) + "\n"
			case "table", "console", "":
				formatter := &compare.TableFormatter{}
				out = formatter.Format(comparisonSet)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
			}
			if err != nil {
				return fmt.Errorf("failed to format %s: %w", outputFormat, err)
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().String("base", compare.DefaultBaseScenarioName, "Name for the unmodified input")
	cmd.Flags().String("rates", "", "Comma-separated annual rates in percent to compare, e.g. 5.5,6.5")
	cmd.Flags().String("terms", "", "Comma-separated loan terms in months to compare, e.g. 180,360")
	cmd.Flags().String("with", "", "Comma-separated built-in templates to compare (see --list-templates)")
	cmd.Flags().StringArray("transform", nil, "Transform chain to compare, e.g. shift_rate:delta=-0.5 (repeatable)")
	cmd.Flags().Bool("list-templates", false, "List built-in templates and exit")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	return cmd
}

func splitList(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func parseRateList(s string) ([]decimal.Decimal, error) {
	var rates []decimal.Decimal
	for _, p := range splitList(s) {
		rate, err := decimal.NewFromString(p)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q: %w", p, err)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func parseTermList(s string) ([]int, error) {
	var terms []int
	for _, p := range splitList(s) {
		term, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid term %q: %w", p, err)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// transformVariants turns each '+'-joined chain of transform specs into a
// variant named after the chain.
func transformVariants(base domain.AffordabilityRequest, chains []string) ([]compare.Variant, error) {
	registry := transform.NewTransformRegistry()
	var variants []compare.Variant

	for _, chain := range chains {
		var transforms []transform.ScenarioTransform
		var descriptions []string
		for _, spec := range strings.Split(chain, "+") {
			t, err := registry.ParseTransformSpec(strings.TrimSpace(spec))
			if err != nil {
				return nil, fmt.Errorf("invalid --transform %q: %w", chain, err)
			}
			transforms = append(transforms, t)
			descriptions = append(descriptions, t.Description())
		}

		variant, err := transform.ToVariant(base, transform.Template{
			Name:        chain,
			Description: strings.Join(descriptions, "; "),
			Transforms:  transforms,
		})
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}

	return variants, nil
}
