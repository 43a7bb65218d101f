package visualization

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"vesselmetrics/internal/models"
)

// TextTable writes metric rows as aligned text columns.
type TextTable struct {
	w io.Writer
}

// NewTextTable creates a table sink writing to w.
func NewTextTable(w io.Writer) *TextTable {
	return &TextTable{w: w}
}

// WriteRows implements engine.TableSink.
func (t *TextTable) WriteRows(rows []models.MetricRow, unit string) error {
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Pair\tCumulative (%s)\tCumulative %%\tPartial (%s)\tPartial %%\t\n", unit, unit)
	for _, r := range rows {
		fmt.Fprintf(tw, "%d-%d\t%.3f\t%.2f\t%.3f\t%.2f\t\n",
			r.Index-1, r.Index, r.Cumulative, r.CumulativePct, r.Partial, r.PartialPct)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// CSVTable writes metric rows as CSV with a header naming the unit.
type CSVTable struct {
	w io.Writer
}

// NewCSVTable creates a CSV sink writing to w.
func NewCSVTable(w io.Writer) *CSVTable {
	return &CSVTable{w: w}
}

// WriteRows implements engine.TableSink.
func (t *CSVTable) WriteRows(rows []models.MetricRow, unit string) error {
	cw := csv.NewWriter(t.w)
	header := []string{
		"from", "to",
		"cumulative_" + unit, "cumulative_pct",
		"partial_" + unit, "partial_pct",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Index - 1),
			strconv.Itoa(r.Index),
			strconv.FormatFloat(r.Cumulative, 'f', -1, 64),
			strconv.FormatFloat(r.CumulativePct, 'f', -1, 64),
			strconv.FormatFloat(r.Partial, 'f', -1, 64),
			strconv.FormatFloat(r.PartialPct, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
