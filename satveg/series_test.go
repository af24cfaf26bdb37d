package satveg_test

import (
	"net/http"
	"testing"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    satveg.SeriesData
		wantErr string
	}{
		{
			name: "valid series",
			data: satveg.SeriesData{
				Values: []float64{0.607, 0.652, 0.7939},
				Dates:  []string{"2000-02-18", "2000-03-05", "2000-03-21"},
			},
		},
		{
			name: "empty series",
			data: satveg.SeriesData{},
		},
		{
			name: "length mismatch",
			data: satveg.SeriesData{
				Values: []float64{0.6, 0.7},
				Dates:  []string{"2000-02-18"},
			},
			wantErr: "length mismatch",
		},
		{
			name: "malformed date",
			data: satveg.SeriesData{
				Values: []float64{0.6},
				Dates:  []string{"18/02/2000"},
			},
			wantErr: "YYYY-MM-DD",
		},
		{
			name: "impossible date",
			data: satveg.SeriesData{
				Values: []float64{0.6},
				Dates:  []string{"2000-02-30"},
			},
			wantErr: "YYYY-MM-DD",
		},
		{
			name: "dates out of order",
			data: satveg.SeriesData{
				Values: []float64{0.6, 0.7},
				Dates:  []string{"2000-03-05", "2000-02-18"},
			},
			wantErr: "before predecessor",
		},
		{
			name: "equal consecutive dates allowed",
			data: satveg.SeriesData{
				Values: []float64{0.6, 0.7},
				Dates:  []string{"2000-02-18", "2000-02-18"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSeriesResponse_Series(t *testing.T) {
	data := satveg.SeriesData{Values: []float64{0.607}, Dates: []string{"2000-02-18"}}
	resp := satveg.SeriesResponse{Success: true, StatusCode: http.StatusOK, Message: "success", Data: &data}

	got, err := resp.Series()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSeriesResponse_Series_Failure(t *testing.T) {
	resp := satveg.SeriesResponse{StatusCode: http.StatusUnauthorized, Message: "invalid credentials: check the API token"}

	_, err := resp.Series()
	require.Error(t, err)

	var remoteErr *satveg.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Message, "credentials")
}

func TestSeriesResponse_Series_MissingData(t *testing.T) {
	resp := satveg.SeriesResponse{Success: true, StatusCode: http.StatusOK}

	_, err := resp.Series()
	var remoteErr *satveg.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusOK, remoteErr.StatusCode)
}
