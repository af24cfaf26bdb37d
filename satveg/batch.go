package satveg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SeriesFetcher is the one capability the batch loop needs from a client.
type SeriesFetcher interface {
	FetchSeriesTable(ctx context.Context, lat, lon float64, label string) (*SeriesTable, error)
}

// Batcher turns ordered point records into one combined table. Lookups run
// strictly in input order, one at a time.
type Batcher struct {
	fetcher      SeriesFetcher
	logger       *slog.Logger
	skipFailures bool
}

// BatcherOption adjusts batch behavior.
type BatcherOption func(*Batcher)

// WithSkipFailures keeps the batch going past records whose lookup fails.
// Every skipped record is logged with its label and coordinates. The batch
// still fails when no record succeeds.
func WithSkipFailures() BatcherOption {
	return func(b *Batcher) { b.skipFailures = true }
}

// WithBatchLogger routes the batch's progress and skip logging.
func WithBatchLogger(logger *slog.Logger) BatcherOption {
	return func(b *Batcher) { b.logger = logger }
}

// NewBatcher creates a sequential batch aggregator over fetcher.
func NewBatcher(fetcher SeriesFetcher, opts ...BatcherOption) *Batcher {
	b := &Batcher{fetcher: fetcher, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildTable fetches one series per record, in input order, and outer-joins
// the results on the date axis. The first failed lookup aborts the whole
// batch with an error naming the record; under WithSkipFailures failed
// records are dropped instead, and only a batch where nothing succeeded is
// an error. Cancelling the context stops the loop between records.
func (b *Batcher) BuildTable(ctx context.Context, records []PointRecord) (*ResultTable, error) {
	if len(records) == 0 {
		return nil, errors.New("satveg: batch has no records")
	}

	tables := make([]*SeriesTable, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch cancelled before %q: %w", rec.Label, err)
		}

		table, err := b.fetcher.FetchSeriesTable(ctx, rec.Lat, rec.Lon, rec.Label)
		if err != nil {
			if !b.skipFailures {
				return nil, fmt.Errorf("record %d %q: %w", i+1, rec.Label, err)
			}
			b.logger.Warn("skipping failed record",
				"row", i+1,
				"label", rec.Label,
				"lat", rec.Lat,
				"lon", rec.Lon,
				"error", err,
			)
			continue
		}
		tables = append(tables, table)
	}

	if len(tables) == 0 {
		return nil, errors.New("satveg: no record produced a valid series")
	}
	return MergeSeriesTables(tables...), nil
}
