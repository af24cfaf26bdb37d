package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/satveg-series/internal/adapter/export"
	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/spf13/cobra"
)

var (
	fetchLat        float64
	fetchLon        float64
	fetchLabel      string
	fetchOutput     string
	fetchOutputFile string
	fetchLimit      int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the vegetation-index series for one coordinate",
	Long: `Fetch the configured vegetation-index time series for a single WGS-84
coordinate.

Output formats:
  text   table preview plus a summary line (default)
  json   the normalized response envelope, success or not, exactly as
         the /v1/series facade serves it
  csv    date;value rows

Examples:
  satveg fetch --lat -18.92803 --lon -40.09281
  satveg fetch --lat -18.92803 --lon -40.09281 --label Café --output csv
  SATVEG_PROFILE=evi satveg fetch --lat -3.02 --lon -59.97 --output json`,
	PreRunE: setupConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := newClient()
		if err != nil {
			return err
		}

		if fetchOutput == "json" {
			resp, err := client.FetchSeries(ctx, fetchLat, fetchLon)
			if err != nil {
				return err
			}
			return writeWithFile(fetchOutputFile, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			})
		}

		st, err := client.FetchSeriesTable(ctx, fetchLat, fetchLon, fetchLabel)
		if err != nil {
			return err
		}

		switch fetchOutput {
		case "text":
			if err := renderSeriesTable(os.Stdout, st, fetchLimit); err != nil {
				return err
			}
			if len(st.Rows) == 0 {
				fmt.Printf("%s empty series for %s\n", warnColor("warn:"), st.Label)
				return nil
			}
			fmt.Printf("%s %d observations for %s (%s/%s, %s .. %s)\n",
				okColor("ok:"), len(st.Rows), st.Label, cfg.Profile, cfg.Satellite,
				st.Rows[0].Date, st.Rows[len(st.Rows)-1].Date)
			return nil
		case "csv":
			return writeWithFile(fetchOutputFile, func(w io.Writer) error {
				return export.WriteResultCSV(w, satveg.MergeSeriesTables(st), satveg.DefaultDelimiter)
			})
		default:
			return fmt.Errorf("unknown output format %q", fetchOutput)
		}
	},
}

func init() {
	fetchCmd.Flags().Float64Var(&fetchLat, "lat", 0, "Latitude in decimal degrees (required)")
	fetchCmd.Flags().Float64Var(&fetchLon, "lon", 0, "Longitude in decimal degrees (required)")
	fetchCmd.Flags().StringVar(&fetchLabel, "label", "series", "Column label for the point")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "text", "Output format: text, json or csv")
	fetchCmd.Flags().StringVarP(&fetchOutputFile, "output-file", "o", "", "Write output to a file instead of stdout")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "Show only the most recent N rows in text output (0 = all)")
	_ = fetchCmd.MarkFlagRequired("lat")
	_ = fetchCmd.MarkFlagRequired("lon")
}
