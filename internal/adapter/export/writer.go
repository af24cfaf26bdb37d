// Package export encodes batch result tables as CSV, JSON or Parquet for
// downstream tooling. Writers take any io.Writer; picking the destination
// (file or stdout) is the caller's concern.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/parquet-go/parquet-go"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Layout selects between the wide date-by-label grid and long observation
// rows.
type Layout string

const (
	LayoutWide Layout = "wide"
	LayoutLong Layout = "long"
)

// ParseLayout maps a flag value onto a Layout.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(s)); l {
	case LayoutWide, LayoutLong:
		return l, nil
	default:
		return "", fmt.Errorf("unknown table layout %q", s)
	}
}

// Write encodes table in the requested layout and format. Parquet carries a
// fixed column schema, so it is only available in the long layout where the
// columns do not depend on the batch's labels.
func Write(w io.Writer, table *satveg.ResultTable, format Format, layout Layout, delimiter rune) error {
	switch layout {
	case LayoutWide:
		switch format {
		case FormatCSV:
			return WriteResultCSV(w, table, delimiter)
		case FormatJSON:
			return WriteResultJSON(w, table)
		case FormatParquet:
			return errors.New("parquet output requires the long layout")
		}
	case LayoutLong:
		learning := table.ToLearning()
		switch format {
		case FormatCSV:
			return WriteLearningCSV(w, learning, delimiter)
		case FormatJSON:
			return WriteLearningJSON(w, learning)
		case FormatParquet:
			return WriteLearningParquet(w, learning)
		}
	}
	return fmt.Errorf("unknown format %q or layout %q", format, layout)
}

// WriteResultCSV writes the wide grid: a date column followed by one value
// column per label. A cell the series never observed stays empty.
func WriteResultCSV(w io.Writer, table *satveg.ResultTable, delimiter rune) error {
	header := append([]string{"date"}, table.Labels...)
	return writeCSV(w, delimiter, header, func(cw *csv.Writer) error {
		row := make([]string, len(table.Labels)+1)
		for _, date := range table.Dates {
			row[0] = date
			for i, label := range table.Labels {
				row[i+1] = ""
				if v, ok := table.Value(label, date); ok {
					row[i+1] = formatValue(v)
				}
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row for %s: %w", date, err)
			}
		}
		return nil
	})
}

// WriteLearningCSV writes one observation per row in long form.
func WriteLearningCSV(w io.Writer, table *satveg.LearningTable, delimiter rune) error {
	return writeCSV(w, delimiter, []string{"label", "date", "value"}, func(cw *csv.Writer) error {
		for _, obs := range table.Observations {
			if err := cw.Write([]string{obs.Label, obs.Date, formatValue(obs.Value)}); err != nil {
				return fmt.Errorf("write observation for %q: %w", obs.Label, err)
			}
		}
		return nil
	})
}

// resultDocument is the wide JSON shape: a shared date axis with one value
// column per label, null where a cell is absent.
type resultDocument struct {
	BuiltAt time.Time      `json:"built_at"`
	Dates   []string       `json:"dates"`
	Series  []seriesColumn `json:"series"`
}

type seriesColumn struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// WriteResultJSON writes the wide grid as an indented JSON document.
func WriteResultJSON(w io.Writer, table *satveg.ResultTable) error {
	doc := resultDocument{
		BuiltAt: table.BuiltAt,
		Dates:   table.Dates,
		Series:  make([]seriesColumn, 0, len(table.Labels)),
	}
	for _, label := range table.Labels {
		col := seriesColumn{Label: label, Values: make([]*float64, len(table.Dates))}
		for i, date := range table.Dates {
			if v, ok := table.Value(label, date); ok {
				value := v
				col.Values[i] = &value
			}
		}
		doc.Series = append(doc.Series, col)
	}
	return writeJSON(w, doc)
}

// observationRow is the export shape of one long-form observation, shared
// by the JSON and Parquet encodings.
type observationRow struct {
	Label string  `json:"label" parquet:"label,snappy"`
	Date  string  `json:"date" parquet:"date,snappy"`
	Value float64 `json:"value" parquet:"value,snappy"`
}

type learningDocument struct {
	BuiltAt      time.Time        `json:"built_at"`
	Observations []observationRow `json:"observations"`
}

// WriteLearningJSON writes the observation rows as an indented JSON
// document.
func WriteLearningJSON(w io.Writer, table *satveg.LearningTable) error {
	return writeJSON(w, learningDocument{
		BuiltAt:      table.BuiltAt,
		Observations: observationRows(table),
	})
}

// WriteLearningParquet writes snappy-compressed observation rows, the
// schema inferred from observationRow tags.
func WriteLearningParquet(w io.Writer, table *satveg.LearningTable) error {
	pw := parquet.NewGenericWriter[observationRow](w)
	if _, err := pw.Write(observationRows(table)); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

func observationRows(table *satveg.LearningTable) []observationRow {
	rows := make([]observationRow, len(table.Observations))
	for i, obs := range table.Observations {
		rows[i] = observationRow{Label: obs.Label, Date: obs.Date, Value: obs.Value}
	}
	return rows
}

// writeCSV writes a header then delegates row production, flushing before
// reporting any buffered error.
func writeCSV(w io.Writer, delimiter rune, header []string, rows func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := rows(cw); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// formatValue renders an index value in the shortest decimal form that
// parses back to the same float.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
