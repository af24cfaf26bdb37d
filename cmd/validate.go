package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var (
	validateInput     string
	validateDelimiter string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a batch input file without fetching anything",
	Long: `Parse a batch input file and list the records it would produce. No
lookups happen, so no token is needed.

Example:
  satveg validate --input points.csv`,
	PreRunE: setupConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		delimiter, err := parseDelimiter(validateDelimiter)
		if err != nil {
			return err
		}

		in, err := os.Open(validateInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer in.Close()

		records, err := satveg.ReadRecords(in, delimiter)
		if err != nil {
			return fmt.Errorf("%s: %w", validateInput, err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Row", "Label", "Latitude", "Longitude"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})
		data := make([][]string, 0, len(records))
		for i, rec := range records {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				rec.Label,
				strconv.FormatFloat(rec.Lat, 'f', -1, 64),
				strconv.FormatFloat(rec.Lon, 'f', -1, 64),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Printf("%s %d valid records in %s\n", okColor("ok:"), len(records), validateInput)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input file with label;latitude;longitude records (required)")
	validateCmd.Flags().StringVar(&validateDelimiter, "delimiter", ";", "Field delimiter for the input file")
	_ = validateCmd.MarkFlagRequired("input")
}
