package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/satveg-series/internal/observability"
	"github.com/couchcryptid/satveg-series/satveg"
)

// Fetch outcomes recorded on the fetch_requests_total counter.
const (
	outcomeSuccess        = "success"
	outcomeRemoteError    = "remote_error"
	outcomeTransportError = "transport_error"
)

// InstrumentedFetcher wraps a satveg.SeriesFetcher with metrics and logging.
type InstrumentedFetcher struct {
	inner   satveg.SeriesFetcher
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewInstrumentedFetcher creates a metrics decorator around a fetcher.
func NewInstrumentedFetcher(inner satveg.SeriesFetcher, metrics *observability.Metrics, logger *slog.Logger) *InstrumentedFetcher {
	return &InstrumentedFetcher{inner: inner, metrics: metrics, logger: logger}
}

// FetchSeriesTable delegates to the wrapped fetcher, timing the lookup and
// classifying its outcome. Failures the service reported count as
// remote_error, everything else as transport_error.
func (f *InstrumentedFetcher) FetchSeriesTable(ctx context.Context, lat, lon float64, label string) (*satveg.SeriesTable, error) {
	start := time.Now()
	table, err := f.inner.FetchSeriesTable(ctx, lat, lon, label)
	f.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		f.metrics.FetchRequests.WithLabelValues(outcomeSuccess).Inc()
		f.logger.Debug("series fetched", "label", label, "rows", len(table.Rows), "duration", time.Since(start))
	case isRemote(err):
		f.metrics.FetchRequests.WithLabelValues(outcomeRemoteError).Inc()
	default:
		f.metrics.FetchRequests.WithLabelValues(outcomeTransportError).Inc()
	}

	return table, err
}

func isRemote(err error) bool {
	var remoteErr *satveg.RemoteError
	return errors.As(err, &remoteErr)
}

// SeriesLookup is the envelope-level lookup capability. Failures the
// service reported come back inside the envelope, not as errors.
type SeriesLookup interface {
	FetchSeries(ctx context.Context, lat, lon float64) (satveg.SeriesResponse, error)
}

// InstrumentedClient adds the same metrics to envelope lookups. The HTTP
// facade wraps its client with this so /metrics reflects facade traffic.
type InstrumentedClient struct {
	inner   SeriesLookup
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewInstrumentedClient creates a metrics decorator around an envelope lookup.
func NewInstrumentedClient(inner SeriesLookup, metrics *observability.Metrics, logger *slog.Logger) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, metrics: metrics, logger: logger}
}

// FetchSeries delegates to the wrapped lookup, timing it and classifying
// the outcome. An envelope with Success=false counts as remote_error.
func (c *InstrumentedClient) FetchSeries(ctx context.Context, lat, lon float64) (satveg.SeriesResponse, error) {
	start := time.Now()
	resp, err := c.inner.FetchSeries(ctx, lat, lon)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.FetchRequests.WithLabelValues(outcomeTransportError).Inc()
	case !resp.Success:
		c.metrics.FetchRequests.WithLabelValues(outcomeRemoteError).Inc()
	default:
		c.metrics.FetchRequests.WithLabelValues(outcomeSuccess).Inc()
		c.logger.Debug("series fetched", "status", resp.StatusCode, "duration", time.Since(start))
	}

	return resp, err
}
