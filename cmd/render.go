package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
)

// writeWithFile runs fn against path, or against stdout when path is
// empty. The confirmation line goes to stderr so piped output stays clean.
func writeWithFile(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	// Close flushes buffered encoders, so its error is a write error.
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", okColor("wrote"), path)
	return nil
}

// renderSeriesTable prints one labeled series as a two-column table.
// limit > 0 keeps only the most recent rows.
func renderSeriesTable(w io.Writer, st *satveg.SeriesTable, limit int) error {
	rows := st.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", st.Label})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Date, formatPreview(r.Value)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// renderResultTable prints the merged wide grid, one column per label.
// Cells with no observation render as "-".
func renderResultTable(w io.Writer, rt *satveg.ResultTable, limit int) error {
	dates := rt.Dates
	if limit > 0 && len(dates) > limit {
		dates = dates[len(dates)-limit:]
	}

	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Date"}, rt.Labels...))
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(dates))
	for _, date := range dates {
		row := make([]string, 0, len(rt.Labels)+1)
		row = append(row, date)
		for _, label := range rt.Labels {
			if v, ok := rt.Value(label, date); ok {
				row = append(row, formatPreview(v))
			} else {
				row = append(row, "-")
			}
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// formatPreview renders an index value for terminal tables. Exports keep
// full precision; previews read better clipped.
func formatPreview(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// parseDelimiter maps a flag value onto one delimiter rune. "\t" and
// "tab" select a tab, which is awkward to pass literally in a shell.
func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return runes[0], nil
}
