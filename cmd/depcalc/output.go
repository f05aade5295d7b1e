package main

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/div40"
	"github.com/warp/depreciation-engine/generic"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// =============================================================================
// AMOUNTS
// =============================================================================

// amountFormatter renders amounts with locale digit grouping. The whole
// dollars go through x/text; cents come from the decimal itself so nothing
// passes through float64.
type amountFormatter struct {
	p *message.Printer
}

func newAmountFormatter(tag language.Tag) *amountFormatter {
	return &amountFormatter{p: message.NewPrinter(tag)}
}

func (f *amountFormatter) Format(d decimal.Decimal) string {
	fixed := d.StringFixed(generic.CentPlaces)
	whole, cents, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}
	grouped := f.p.Sprint(number.Decimal(n))
	if n == 0 && strings.HasPrefix(whole, "-") {
		grouped = "-" + grouped
	}
	return grouped + "." + cents
}

// =============================================================================
// TABLE
// =============================================================================

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	totalStyle  = amountStyle.Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newTable builds a bordered table whose first column is a label and the
// rest are amounts. The last row is bold when boldLast is set.
func newTable(headers []string, rows [][]string, boldLast bool) *table.Table {
	last := len(rows) - 1
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case boldLast && row == last:
				return totalStyle
			case col == 0:
				return cellStyle
			default:
				return amountStyle
			}
		})
}

func writeProjectionTable(out io.Writer, f *amountFormatter, result generic.ProjectionResult, detail bool) error {
	rows := make([][]string, 0, len(result.Rows)+1)
	for _, r := range result.Rows {
		rows = append(rows, []string{
			r.Label(),
			f.Format(r.Div40Total),
			f.Format(r.Div43Total),
			f.Format(r.LowValuePoolTotal),
			f.Format(r.GrandTotal),
		})
	}
	total := generic.Totals(result.Rows)
	rows = append(rows, []string{
		"Total",
		f.Format(total.Div40Total),
		f.Format(total.Div43Total),
		f.Format(total.LowValuePoolTotal),
		f.Format(total.GrandTotal),
	})

	t := newTable([]string{"Year", "Div 40", "Div 43", "Low-value pool", "Total"}, rows, true)
	if _, err := io.WriteString(out, t.Render()+"\n"); err != nil {
		return err
	}
	if !detail || len(result.Lines) == 0 {
		return nil
	}

	lines := make([][]string, len(result.Lines))
	for i, l := range result.Lines {
		lines[i] = []string{generic.FormatFinancialYear(l.FinancialYear), l.SourceID, string(l.Category), f.Format(l.Amount)}
	}
	t = newTable([]string{"Year", "Source", "Category", "Amount"}, lines, false)
	_, err := io.WriteString(out, "\n"+t.Render()+"\n")
	return err
}

func writeScheduleTable(out io.Writer, f *amountFormatter, a div40.Asset, entries []div40.ScheduleEntry) error {
	rows := make([][]string, 0, len(entries)+1)
	for _, e := range entries {
		rows = append(rows, []string{
			generic.FormatFinancialYear(e.FinancialYear),
			f.Format(e.OpeningValue),
			f.Format(e.Deduction),
			f.Format(e.ClosingValue),
		})
	}
	rows = append(rows, []string{"Total", "", f.Format(div40.TotalDeducted(entries)), ""})

	title := a.ID
	if a.Description != "" {
		title += " (" + a.Description + ")"
	}
	heading := headerStyle.Render(title) + "\n" + cellStyle.Render(scheduleTreatment(a)) + "\n"

	t := newTable([]string{"Year", "Opening", "Deduction", "Closing"}, rows, true)
	_, err := io.WriteString(out, heading+t.Render()+"\n")
	return err
}

func scheduleTreatment(a div40.Asset) string {
	switch a.Pool {
	case div40.PoolLowValue:
		return "Low-value pool"
	case div40.PoolImmediateWriteOff:
		return "Immediate write-off"
	}
	method := "Diminishing value"
	if a.Method == div40.MethodPrimeCost {
		method = "Prime cost"
	}
	return method + ", " + a.EffectiveLife.String() + " year effective life"
}

// =============================================================================
// JSON
// =============================================================================

type jsonRow struct {
	FinancialYear     int    `json:"financial_year"`
	Label             string `json:"label"`
	Div40Total        string `json:"div40_total"`
	Div43Total        string `json:"div43_total"`
	LowValuePoolTotal string `json:"low_value_pool_total"`
	GrandTotal        string `json:"grand_total"`
}

type jsonLine struct {
	FinancialYear int    `json:"financial_year"`
	SourceID      string `json:"source_id"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
}

type jsonProjection struct {
	From   int        `json:"from"`
	To     int        `json:"to"`
	Rows   []jsonRow  `json:"rows"`
	Totals jsonRow    `json:"totals"`
	Lines  []jsonLine `json:"lines,omitempty"`
}

func toJSONRow(r generic.ProjectionRow) jsonRow {
	return jsonRow{
		FinancialYear:     r.FinancialYear,
		Label:             r.Label(),
		Div40Total:        r.Div40Total.StringFixed(generic.CentPlaces),
		Div43Total:        r.Div43Total.StringFixed(generic.CentPlaces),
		LowValuePoolTotal: r.LowValuePoolTotal.StringFixed(generic.CentPlaces),
		GrandTotal:        r.GrandTotal.StringFixed(generic.CentPlaces),
	}
}

func writeProjectionJSON(out io.Writer, rng generic.YearRange, result generic.ProjectionResult, detail bool) error {
	doc := jsonProjection{From: rng.From, To: rng.To, Rows: make([]jsonRow, len(result.Rows))}
	for i, r := range result.Rows {
		doc.Rows[i] = toJSONRow(r)
	}
	doc.Totals = toJSONRow(generic.Totals(result.Rows))
	doc.Totals.FinancialYear = 0
	doc.Totals.Label = "total"

	if detail {
		for _, l := range result.Lines {
			doc.Lines = append(doc.Lines, jsonLine{
				FinancialYear: l.FinancialYear,
				SourceID:      l.SourceID,
				Category:      string(l.Category),
				Amount:        l.Amount.StringFixed(generic.CentPlaces),
			})
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// =============================================================================
// CSV
// =============================================================================

// writeProjectionCSV writes one row per financial year, or one row per line
// item with detail set. Amounts are plain two-place decimals.
func writeProjectionCSV(out io.Writer, result generic.ProjectionResult, detail bool) error {
	w := csv.NewWriter(out)

	if detail {
		if err := w.Write([]string{"financial_year", "label", "source_id", "category", "amount"}); err != nil {
			return err
		}
		for _, l := range result.Lines {
			if err := w.Write([]string{
				strconv.Itoa(l.FinancialYear),
				generic.FormatFinancialYear(l.FinancialYear),
				l.SourceID,
				string(l.Category),
				l.Amount.StringFixed(generic.CentPlaces),
			}); err != nil {
				return err
			}
		}
	} else {
		if err := w.Write([]string{"financial_year", "label", "div40_total", "div43_total", "low_value_pool_total", "grand_total"}); err != nil {
			return err
		}
		for _, r := range result.Rows {
			j := toJSONRow(r)
			if err := w.Write([]string{
				strconv.Itoa(j.FinancialYear), j.Label, j.Div40Total, j.Div43Total, j.LowValuePoolTotal, j.GrandTotal,
			}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
