package satveg

import "fmt"

// RemoteError describes a lookup the SATVeg service reported as failed:
// rejected credentials, a non-200 status, or a 200 payload that violates
// the series contract. FetchSeries carries it inside the SeriesResponse
// envelope; FetchSeriesTable and the batch loop return it as an error.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("satveg: status %d: %s", e.StatusCode, e.Message)
}

// ParseError reports malformed batch input. Row is the 1-based data row
// number, not counting the header; it is zero for file-level problems such
// as a missing header column.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("satveg: records: %v", e.Err)
	}
	return fmt.Sprintf("satveg: records row %d: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
