package satveg

import (
	"sort"
	"time"
)

// SeriesRow is one dated observation.
type SeriesRow struct {
	Date  string
	Value float64
}

// SeriesTable is the time series of one labeled point, the row-oriented
// form of a SeriesData.
type SeriesTable struct {
	Label string
	Rows  []SeriesRow
}

// NewSeriesTable shapes a validated series as a single-label table. Row i
// pairs data.Dates[i] with data.Values[i].
func NewSeriesTable(label string, data SeriesData) *SeriesTable {
	rows := make([]SeriesRow, len(data.Values))
	for i, v := range data.Values {
		rows[i] = SeriesRow{Date: data.Dates[i], Value: v}
	}
	return &SeriesTable{Label: label, Rows: rows}
}

// ResultTable is the wide form of a batch: one row per date observed by any
// of the merged series, one column per label. A cell a series did not
// observe is absent, never zero-filled; Value reports absence explicitly.
type ResultTable struct {
	Labels  []string // column order, as merged
	Dates   []string // row order, chronological
	BuiltAt time.Time

	cells map[string]map[string]float64
}

// MergeSeriesTables outer-joins single-label tables on the date axis. The
// row set is the union of all dates, sorted; the column order follows the
// argument order. Labels are assumed unique, which ReadRecords guarantees
// for batch input. The result is stamped from the package clock.
func MergeSeriesTables(tables ...*SeriesTable) *ResultTable {
	t := &ResultTable{
		Labels:  make([]string, 0, len(tables)),
		BuiltAt: clock.Now().UTC(),
		cells:   make(map[string]map[string]float64, len(tables)),
	}

	dateSet := make(map[string]struct{})
	for _, st := range tables {
		col := make(map[string]float64, len(st.Rows))
		for _, row := range st.Rows {
			col[row.Date] = row.Value
			dateSet[row.Date] = struct{}{}
		}
		t.Labels = append(t.Labels, st.Label)
		t.cells[st.Label] = col
	}

	t.Dates = make([]string, 0, len(dateSet))
	for date := range dateSet {
		t.Dates = append(t.Dates, date)
	}
	// Validated ISO dates sort chronologically as strings.
	sort.Strings(t.Dates)

	return t
}

// Value returns the cell for a label and date. The second return is false
// when the label's series has no observation on that date.
func (t *ResultTable) Value(label, date string) (float64, bool) {
	v, ok := t.cells[label][date]
	return v, ok
}

// Len returns the number of date rows.
func (t *ResultTable) Len() int { return len(t.Dates) }

// Observation is one labeled, dated index value in long form.
type Observation struct {
	Label string
	Date  string
	Value float64
}

// LearningTable is the long form of a ResultTable, one row per present
// cell, shaped for feeding model training.
type LearningTable struct {
	Observations []Observation
	BuiltAt      time.Time
}

// Len returns the number of observations.
func (t *LearningTable) Len() int { return len(t.Observations) }

// ToLearning reshapes the wide table into long form: label-major in column
// order, chronological within each label. Absent cells produce no rows, so
// every observation in the result maps back to exactly one present cell
// and nothing is lost or invented.
func (t *ResultTable) ToLearning() *LearningTable {
	lt := &LearningTable{BuiltAt: t.BuiltAt}
	for _, label := range t.Labels {
		for _, date := range t.Dates {
			if v, ok := t.cells[label][date]; ok {
				lt.Observations = append(lt.Observations, Observation{Label: label, Date: date, Value: v})
			}
		}
	}
	return lt
}
