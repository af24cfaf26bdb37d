// Command satveg is the command-line interface to the SATVeg
// vegetation-index series client.
package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/satveg-series/cmd"
	"github.com/fatih/color"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
		os.Exit(1)
	}
}
