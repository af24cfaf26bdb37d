package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/satveg-series/internal/adapter/export"
	"github.com/couchcryptid/satveg-series/internal/observability"
	"github.com/couchcryptid/satveg-series/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	batchInput      string
	batchDelimiter  string
	batchOutput     string
	batchLayout     string
	batchOutputFile string
	batchSkip       bool
	batchLimit      int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fetch series for a batch of labeled coordinates",
	Long: `Read labeled coordinates from a delimited file with a
label;latitude;longitude header, fetch every series sequentially and
merge them into one table on the date axis.

The batch aborts on the first failed record. With --skip-failures,
failed records are dropped and logged instead; the batch still fails
when no record yields a valid series.

Output formats:
  text       table preview plus a summary line (default)
  csv, json  the merged table; --layout picks wide (dates × labels) or
             long (one observation per row)
  parquet    long observation rows; requires --output-file

Examples:
  satveg batch --input points.csv
  satveg batch --input points.csv --output csv -o table.csv
  satveg batch --input points.csv --output parquet -o obs.parquet
  satveg batch --input points.csv --skip-failures --output json --layout long`,
	PreRunE: setupConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		delimiter, err := parseDelimiter(batchDelimiter)
		if err != nil {
			return err
		}

		// Resolve output knobs before fetching anything, so a bad flag
		// does not cost a full batch run.
		var format export.Format
		var layout export.Layout
		if batchOutput != "text" {
			if format, err = export.ParseFormat(batchOutput); err != nil {
				return err
			}
			if layout, err = export.ParseLayout(batchLayout); err != nil {
				return err
			}
			if format == export.FormatParquet {
				if batchOutputFile == "" {
					return errors.New("parquet output requires --output-file")
				}
				// Parquet rows are long-form observations, so the layout
				// follows unless the user forced one.
				if !cmd.Flags().Changed("layout") {
					layout = export.LayoutLong
				}
				if layout != export.LayoutLong {
					return errors.New("parquet output requires the long layout")
				}
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		in, err := os.Open(batchInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer in.Close()

		runner := pipeline.NewRunner(client, observability.NewMetrics(), logger, batchSkip)
		report, err := runner.Run(ctx, in, delimiter)
		if err != nil {
			return err
		}

		if batchOutput == "text" {
			if err := renderResultTable(os.Stdout, report.Table, batchLimit); err != nil {
				return err
			}
			printBatchSummary(os.Stdout, report)
			return nil
		}

		err = writeWithFile(batchOutputFile, func(w io.Writer) error {
			return export.Write(w, report.Table, format, layout, delimiter)
		})
		if err != nil {
			return err
		}
		printBatchSummary(os.Stderr, report)
		return nil
	},
}

func printBatchSummary(w io.Writer, report *pipeline.BatchReport) {
	fmt.Fprintf(w, "%s fetched %d of %d records, %d dates × %d series in %s\n",
		okColor("done:"), report.Fetched, report.Records, report.Table.Len(),
		len(report.Table.Labels), report.Duration.Round(time.Millisecond))
	if report.Skipped > 0 {
		fmt.Fprintf(w, "%s %d failed records skipped\n", warnColor("warn:"), report.Skipped)
	}
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "Input file with label;latitude;longitude records (required)")
	batchCmd.Flags().StringVar(&batchDelimiter, "delimiter", ";", "Field delimiter for the input file and csv output")
	batchCmd.Flags().StringVar(&batchOutput, "output", "text", "Output format: text, csv, json or parquet")
	batchCmd.Flags().StringVar(&batchLayout, "layout", "wide", "Table layout for csv, json and parquet: wide or long")
	batchCmd.Flags().StringVarP(&batchOutputFile, "output-file", "o", "", "Write output to a file instead of stdout")
	batchCmd.Flags().BoolVar(&batchSkip, "skip-failures", false, "Skip records whose lookup fails instead of aborting")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "Show only the most recent N date rows in text output (0 = all)")
	_ = batchCmd.MarkFlagRequired("input")
}
