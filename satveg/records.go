package satveg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultDelimiter is the column separator assumed for batch input files.
const DefaultDelimiter = ';'

// Column names recognized in the input header.
const (
	colLabel     = "label"
	colLatitude  = "latitude"
	colLongitude = "longitude"
)

// PointRecord is one labeled coordinate from a batch input file. The label
// becomes a column name in the batch result, so it is unique per batch.
type PointRecord struct {
	Label string
	Lat   float64
	Lon   float64
}

// ReadRecords parses labeled coordinates from delimited input. The first
// row is a header naming the label, latitude and longitude columns in any
// order; names are matched case-insensitively and extra columns are
// ignored. Records come back in file order. Malformed input yields a
// *ParseError identifying the offending row.
func ReadRecords(r io.Reader, delimiter rune) ([]PointRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("empty input: missing header row")}
	}
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read header: %w", err)}
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colLabel, colLatitude, colLongitude} {
		if _, ok := colIdx[required]; !ok {
			return nil, &ParseError{Err: fmt.Errorf("header missing %q column", required)}
		}
	}

	var records []PointRecord
	seen := make(map[string]int)
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: row, Err: err}
		}

		label := strings.TrimSpace(fields[colIdx[colLabel]])
		if label == "" {
			return nil, &ParseError{Row: row, Err: errors.New("empty label")}
		}
		if first, dup := seen[label]; dup {
			return nil, &ParseError{Row: row, Err: fmt.Errorf("duplicate label %q, first used on row %d", label, first)}
		}
		seen[label] = row

		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[colIdx[colLatitude]]), 64)
		if err != nil {
			return nil, &ParseError{Row: row, Err: fmt.Errorf("latitude: %w", err)}
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[colIdx[colLongitude]]), 64)
		if err != nil {
			return nil, &ParseError{Row: row, Err: fmt.Errorf("longitude: %w", err)}
		}

		records = append(records, PointRecord{Label: label, Lat: lat, Lon: lon})
	}

	if len(records) == 0 {
		return nil, &ParseError{Err: errors.New("no data rows")}
	}
	return records, nil
}
