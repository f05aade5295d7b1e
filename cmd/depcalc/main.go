/*
main.go - depcalc command-line projector

PURPOSE:
  Projects a register file without a server or database. Reads the same
  JSON document POST /api/projections accepts.

COMMANDS:
  depcalc project  --file register.json [--from 2026] [--to 2035]
                   [--format table|json|csv] [--detail]
  depcalc schedule --file register.json --asset ID [--years N]
  depcalc fy       [--date YYYY-MM-DD]

EXAMPLES:
  # Ten years from the current financial year
  depcalc project --file unit4.json

  # Spreadsheet export
  depcalc project --file unit4.json --from 2025-26 --to 2034-35 --format csv > unit4.csv

SEE ALSO:
  - factory/records.go: Register document format
  - output.go: Table, JSON and CSV rendering
*/
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/depreciation-engine/div40"
	"github.com/warp/depreciation-engine/engine"
	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/generic"
	"golang.org/x/text/language"
)

func main() {
	if err := newRootCmd(os.Stdout, time.Now).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, now func() time.Time) *cobra.Command {
	var locale string

	rootCmd := &cobra.Command{
		Use:           "depcalc",
		Short:         "Depreciation and capital works projections",
		Long:          `Projects Division 40 and Division 43 deductions for an asset register file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "en-AU", "Locale for table amounts")

	printer := func() (*amountFormatter, error) {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid --locale %q: %w", locale, err)
		}
		return newAmountFormatter(tag), nil
	}

	rootCmd.AddCommand(
		newProjectCmd(out, now, printer),
		newScheduleCmd(out, printer),
		newFYCmd(out, now),
	)
	return rootCmd
}

// =============================================================================
// PROJECT
// =============================================================================

func newProjectCmd(out io.Writer, now func() time.Time, printer func() (*amountFormatter, error)) *cobra.Command {
	var (
		file, from, to, format string
		detail                 bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a register over a range of financial years",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := readRegister(file)
			if err != nil {
				return err
			}

			rng, err := factory.ParseRange(from, to)
			if err != nil {
				return err
			}
			if rng != nil {
				reg.Range = rng
			}

			in := reg.Input(generic.DefaultRange(now()))
			result := engine.ProjectDetailed(in)

			switch format {
			case "json":
				return writeProjectionJSON(out, in.Range(), result, detail)
			case "csv":
				return writeProjectionCSV(out, result, detail)
			case "table":
				f, err := printer()
				if err != nil {
					return err
				}
				return writeProjectionTable(out, f, result, detail)
			default:
				return fmt.Errorf("unknown --format %q (want table, json or csv)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Register JSON file (- for stdin)")
	cmd.Flags().StringVar(&from, "from", "", "First financial year, e.g. 2026 or 2025-26")
	cmd.Flags().StringVar(&to, "to", "", "Last financial year")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json or csv")
	cmd.Flags().BoolVar(&detail, "detail", false, "Include per-asset line items")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// =============================================================================
// SCHEDULE
// =============================================================================

func newScheduleCmd(out io.Writer, printer func() (*amountFormatter, error)) *cobra.Command {
	var (
		file, assetID string
		years         int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show one asset's year-by-year schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if years < 0 {
				return fmt.Errorf("--years must not be negative")
			}
			reg, err := readRegister(file)
			if err != nil {
				return err
			}

			asset, ok := findAsset(reg.Assets, assetID)
			if !ok {
				return fmt.Errorf("%w: %q is not in %s", generic.ErrAssetNotFound, assetID, file)
			}

			f, err := printer()
			if err != nil {
				return err
			}
			return writeScheduleTable(out, f, asset, asset.Schedule(years))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Register JSON file (- for stdin)")
	cmd.Flags().StringVar(&assetID, "asset", "", "Asset ID")
	cmd.Flags().IntVar(&years, "years", 0, "Number of years (0 runs until fully written off)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("asset")
	return cmd
}

func findAsset(assets []div40.Asset, id string) (div40.Asset, bool) {
	for _, a := range assets {
		if a.ID == id {
			return a, true
		}
	}
	return div40.Asset{}, false
}

// =============================================================================
// FY
// =============================================================================

func newFYCmd(out io.Writer, now func() time.Time) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "fy",
		Short: "Describe the financial year containing a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := generic.FromTime(now())
			if date != "" {
				parsed, err := generic.ParseTimePoint(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				day = parsed
			}

			fy := generic.FinancialYearOf(day)
			period := generic.FinancialYearPeriod(fy)
			fmt.Fprintf(out, "Financial year %s (FY%d)\n", generic.FormatFinancialYear(fy), fy)
			fmt.Fprintf(out, "  %s to %s, %d days\n", period.Start, period.End, period.Days())
			fmt.Fprintf(out, "  %d days remaining from %s\n", generic.DaysToFinancialYearEnd(day), day)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD), default today")
	return cmd
}

// readRegister loads and validates a register file; "-" reads stdin.
func readRegister(path string) (*factory.Register, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading register: %w", err)
	}
	return factory.NewRecordFactory().ParseRegister(data)
}
