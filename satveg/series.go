package satveg

import (
	"fmt"
	"time"
)

// Envelope messages for the normalized response.
const (
	msgSuccess            = "success"
	msgInvalidCredentials = "invalid credentials: check the API token"
	msgNotProcessable     = "the request could not be processed"
)

const dateLayout = "2006-01-02"

// SeriesResponse is the normalized outcome of one series lookup. Success
// distinguishes usable responses from failures the service reported;
// StatusCode and Message always describe what happened. Data is non-nil
// only when Success is true.
type SeriesResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       *SeriesData `json:"data,omitempty"`
}

// Series returns the payload, or a *RemoteError when the lookup failed.
// Going through this accessor instead of reading Data directly means absent
// payloads cannot be consumed by accident.
func (r SeriesResponse) Series() (SeriesData, error) {
	if !r.Success {
		return SeriesData{}, &RemoteError{StatusCode: r.StatusCode, Message: r.Message}
	}
	if r.Data == nil {
		return SeriesData{}, &RemoteError{StatusCode: r.StatusCode, Message: "success response without series data"}
	}
	return *r.Data, nil
}

// SeriesData is one vegetation-index time series: Values[i] was observed on
// Dates[i]. The JSON keys are the upstream payload keys, so the envelope
// round-trips the way the service emitted it.
type SeriesData struct {
	Values []float64 `json:"listaSerie"`
	Dates  []string  `json:"listaDatas"`
}

// Len returns the number of observations.
func (d SeriesData) Len() int { return len(d.Values) }

// Validate checks the series contract: values and dates of equal length,
// every date in ISO YYYY-MM-DD form, and dates in chronological order.
func (d SeriesData) Validate() error {
	if len(d.Values) != len(d.Dates) {
		return fmt.Errorf("series length mismatch: %d values, %d dates", len(d.Values), len(d.Dates))
	}
	for i, date := range d.Dates {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return fmt.Errorf("date %q at position %d: not in YYYY-MM-DD form", date, i)
		}
		// Fixed-width ISO dates compare chronologically as strings.
		if i > 0 && date < d.Dates[i-1] {
			return fmt.Errorf("date %q at position %d: before predecessor %q", date, i, d.Dates[i-1])
		}
	}
	return nil
}
