package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/satveg-series/internal/observability"
	"github.com/couchcryptid/satveg-series/satveg"
)

// BatchReport summarizes one batch run.
type BatchReport struct {
	Table    *satveg.ResultTable
	Records  int // input records read
	Fetched  int // records that produced a series
	Skipped  int // records dropped under skip-failures
	Duration time.Duration
}

// Runner executes one complete batch: read records, fetch every series in
// input order through an instrumented fetcher, and merge into one table.
type Runner struct {
	batcher *satveg.Batcher
	metrics *observability.Metrics
	logger  *slog.Logger
	skip    bool
}

// NewRunner wires a batch runner over fetcher. With skipFailures the batch
// drops failing records instead of aborting on the first one.
func NewRunner(fetcher satveg.SeriesFetcher, metrics *observability.Metrics, logger *slog.Logger, skipFailures bool) *Runner {
	instrumented := NewInstrumentedFetcher(fetcher, metrics, logger)
	opts := []satveg.BatcherOption{satveg.WithBatchLogger(logger)}
	if skipFailures {
		opts = append(opts, satveg.WithSkipFailures())
	}
	return &Runner{
		batcher: satveg.NewBatcher(instrumented, opts...),
		metrics: metrics,
		logger:  logger,
		skip:    skipFailures,
	}
}

// Run reads point records from input and builds the combined table.
func (r *Runner) Run(ctx context.Context, input io.Reader, delimiter rune) (*BatchReport, error) {
	start := time.Now()

	records, err := satveg.ReadRecords(input, delimiter)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	r.metrics.BatchSize.Observe(float64(len(records)))
	r.logger.Info("batch started", "records", len(records), "skip_failures", r.skip)

	table, err := r.batcher.BuildTable(ctx, records)
	if err != nil {
		return nil, err
	}

	fetched := len(table.Labels)
	skipped := len(records) - fetched
	r.metrics.BatchRecords.WithLabelValues("fetched").Add(float64(fetched))
	r.metrics.BatchRecords.WithLabelValues("skipped").Add(float64(skipped))
	r.metrics.BatchDuration.Observe(time.Since(start).Seconds())

	report := &BatchReport{
		Table:    table,
		Records:  len(records),
		Fetched:  fetched,
		Skipped:  skipped,
		Duration: time.Since(start),
	}
	r.logger.Info("batch finished",
		"records", report.Records,
		"fetched", report.Fetched,
		"skipped", report.Skipped,
		"rows", table.Len(),
		"duration", report.Duration,
	)
	return report, nil
}
