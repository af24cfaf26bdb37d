package integration_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/satveg-series/internal/adapter/export"
	"github.com/couchcryptid/satveg-series/internal/adapter/mockapi"
	"github.com/couchcryptid/satveg-series/internal/config"
	"github.com/couchcryptid/satveg-series/internal/observability"
	"github.com/couchcryptid/satveg-series/internal/pipeline"
	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "integration-token"

const batchInput = `label;latitude;longitude
Café;-18.92803;-40.09281
Pasto;-18.95423;-40.11042
Mata;-19.01356;-40.21881
`

var frozenNow = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// --- helpers ---

// freezeClocks pins the mock upstream's composite calendar and the table
// build stamp to the same instant.
func freezeClocks(t *testing.T) {
	t.Helper()
	fake := clockwork.NewFakeClockAt(frozenNow)
	mockapi.SetClock(fake)
	satveg.SetClock(fake)
	t.Cleanup(func() {
		mockapi.SetClock(nil)
		satveg.SetClock(nil)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewHandler(testToken, discardLogger()))
	t.Cleanup(srv.Close)
	return srv
}

// newClient builds a real client from a Config, the way the commands do.
func newClient(t *testing.T, srv *httptest.Server, token string) *satveg.Client {
	t.Helper()
	cfg := &config.Config{
		Token:     token,
		Profile:   satveg.ProfileNDVI,
		Satellite: satveg.SatelliteTerra,
		PreFilter: satveg.PreFilterCloudNoData,
		BaseURL:   srv.URL + mockapi.BasePath,
		Timeout:   5 * time.Second,
	}
	client, err := satveg.NewClient(cfg.Token, cfg.ClientOptions(discardLogger())...)
	require.NoError(t, err)
	return client
}

// --- tests ---

// TestBatchPipeline_EndToEnd runs input parsing, real HTTP lookups against
// the mock upstream, table merging and CSV export in one pass.
func TestBatchPipeline_EndToEnd(t *testing.T) {
	freezeClocks(t)
	srv := newUpstream(t)
	client := newClient(t, srv, testToken)
	metrics := observability.NewMetricsForTesting()
	runner := pipeline.NewRunner(client, metrics, discardLogger(), false)

	report, err := runner.Run(context.Background(), strings.NewReader(batchInput), satveg.DefaultDelimiter)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Records)
	assert.Equal(t, 3, report.Fetched)
	assert.Zero(t, report.Skipped)

	table := report.Table
	require.NotNil(t, table)
	assert.Equal(t, []string{"Café", "Pasto", "Mata"}, table.Labels)
	// One terra composite every 16 days from 2000-02-18 through the frozen
	// date.
	assert.Equal(t, 20, table.Len())
	assert.Equal(t, "2000-02-18", table.Dates[0])
	assert.Equal(t, frozenNow, table.BuiltAt)

	// Same satellite, same calendar: the grid is full.
	for _, label := range table.Labels {
		for _, date := range table.Dates {
			_, ok := table.Value(label, date)
			require.True(t, ok, "missing cell %s %s", label, date)
		}
	}

	// Distinct coordinates must not serve the same series.
	cafe, _ := table.Value("Café", "2000-02-18")
	pasto, _ := table.Value("Pasto", "2000-02-18")
	assert.NotEqual(t, cafe, pasto)

	learning := table.ToLearning()
	assert.Equal(t, 60, learning.Len())
	assert.Equal(t, frozenNow, learning.BuiltAt)

	var buf bytes.Buffer
	require.NoError(t, export.WriteResultCSV(&buf, table, satveg.DefaultDelimiter))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "date;Café;Pasto;Mata", lines[0])

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.BatchRecords.WithLabelValues("fetched")))
}

// TestBatchPipeline_BadToken verifies the credential failure path through
// the whole stack: the upstream rejects the token, the client reports the
// envelope, the batch aborts naming the first record.
func TestBatchPipeline_BadToken(t *testing.T) {
	freezeClocks(t)
	srv := newUpstream(t)
	client := newClient(t, srv, "wrong-token")
	metrics := observability.NewMetricsForTesting()
	runner := pipeline.NewRunner(client, metrics, discardLogger(), false)

	report, err := runner.Run(context.Background(), strings.NewReader(batchInput), satveg.DefaultDelimiter)
	require.Error(t, err)
	assert.Nil(t, report)

	var remote *satveg.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Contains(t, err.Error(), "invalid credentials")
	assert.Contains(t, err.Error(), "Café", "abort must name the failing record")

	// Aborting on the first record means exactly one lookup happened.
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("remote_error")))
}

func TestBatchPipeline_SkipFailuresWithAllFailing(t *testing.T) {
	freezeClocks(t)
	srv := newUpstream(t)
	client := newClient(t, srv, "wrong-token")
	metrics := observability.NewMetricsForTesting()
	runner := pipeline.NewRunner(client, metrics, discardLogger(), true)

	report, err := runner.Run(context.Background(), strings.NewReader(batchInput), satveg.DefaultDelimiter)
	require.ErrorContains(t, err, "no record produced a valid series")
	assert.Nil(t, report)

	// All three records were tried before giving up.
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("remote_error")))
}

// TestBatchPipeline_RepeatedRunsAgree checks lookup idempotence through the
// real client: a stable upstream yields byte-identical tables.
func TestBatchPipeline_RepeatedRunsAgree(t *testing.T) {
	freezeClocks(t)
	srv := newUpstream(t)
	client := newClient(t, srv, testToken)

	first, err := pipeline.NewRunner(client, observability.NewMetricsForTesting(), discardLogger(), false).
		Run(context.Background(), strings.NewReader(batchInput), satveg.DefaultDelimiter)
	require.NoError(t, err)
	second, err := pipeline.NewRunner(client, observability.NewMetricsForTesting(), discardLogger(), false).
		Run(context.Background(), strings.NewReader(batchInput), satveg.DefaultDelimiter)
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, export.WriteResultCSV(&a, first.Table, satveg.DefaultDelimiter))
	require.NoError(t, export.WriteResultCSV(&b, second.Table, satveg.DefaultDelimiter))
	assert.Equal(t, a.String(), b.String())
}
