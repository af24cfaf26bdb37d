package satveg_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFetcher struct {
	calls []string
	fail  map[string]error
}

func (m *mockFetcher) FetchSeriesTable(_ context.Context, lat, lon float64, label string) (*satveg.SeriesTable, error) {
	m.calls = append(m.calls, label)
	if err := m.fail[label]; err != nil {
		return nil, err
	}
	return satveg.NewSeriesTable(label, satveg.SeriesData{
		Values: []float64{lat, lon},
		Dates:  []string{"2000-02-18", "2000-03-05"},
	}), nil
}

func testRecords() []satveg.PointRecord {
	return []satveg.PointRecord{
		{Label: "Café", Lat: -18.92803, Lon: -40.09281},
		{Label: "Pasto", Lat: -20.55771, Lon: -41.18474},
		{Label: "Mata", Lat: -19.51, Lon: -42.12},
	}
}

// --- tests ---

func TestBatcher_BuildTable_AllSucceed(t *testing.T) {
	fetcher := &mockFetcher{}
	b := satveg.NewBatcher(fetcher, satveg.WithBatchLogger(testLogger()))

	table, err := b.BuildTable(context.Background(), testRecords())
	require.NoError(t, err)

	assert.Equal(t, []string{"Café", "Pasto", "Mata"}, fetcher.calls)
	assert.Equal(t, []string{"Café", "Pasto", "Mata"}, table.Labels)
	assert.Equal(t, 2, table.Len())
}

func TestBatcher_BuildTable_AbortsOnFirstFailure(t *testing.T) {
	fetcher := &mockFetcher{fail: map[string]error{
		"Pasto": &satveg.RemoteError{StatusCode: http.StatusInternalServerError, Message: "the request could not be processed"},
	}}
	b := satveg.NewBatcher(fetcher, satveg.WithBatchLogger(testLogger()))

	_, err := b.BuildTable(context.Background(), testRecords())
	require.Error(t, err)

	assert.Contains(t, err.Error(), "Pasto")
	var remoteErr *satveg.RemoteError
	assert.ErrorAs(t, err, &remoteErr)
	// Mata is never fetched once Pasto fails.
	assert.Equal(t, []string{"Café", "Pasto"}, fetcher.calls)
}

func TestBatcher_BuildTable_SkipFailures(t *testing.T) {
	fetcher := &mockFetcher{fail: map[string]error{
		"Pasto": &satveg.RemoteError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials: check the API token"},
	}}
	b := satveg.NewBatcher(fetcher, satveg.WithSkipFailures(), satveg.WithBatchLogger(testLogger()))

	table, err := b.BuildTable(context.Background(), testRecords())
	require.NoError(t, err)

	assert.Equal(t, []string{"Café", "Pasto", "Mata"}, fetcher.calls)
	assert.Equal(t, []string{"Café", "Mata"}, table.Labels)
}

func TestBatcher_BuildTable_AllFail(t *testing.T) {
	fetcher := &mockFetcher{fail: map[string]error{
		"Café":  errors.New("dial tcp: connection refused"),
		"Pasto": errors.New("dial tcp: connection refused"),
		"Mata":  errors.New("dial tcp: connection refused"),
	}}
	b := satveg.NewBatcher(fetcher, satveg.WithSkipFailures(), satveg.WithBatchLogger(testLogger()))

	_, err := b.BuildTable(context.Background(), testRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record produced a valid series")
}

func TestBatcher_BuildTable_NoRecords(t *testing.T) {
	b := satveg.NewBatcher(&mockFetcher{}, satveg.WithBatchLogger(testLogger()))

	_, err := b.BuildTable(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no records")
}

func TestBatcher_BuildTable_ContextCancelled(t *testing.T) {
	fetcher := &mockFetcher{}
	b := satveg.NewBatcher(fetcher, satveg.WithBatchLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.BuildTable(ctx, testRecords())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls)
}
