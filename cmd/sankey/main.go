// Command sankey prints the cash-flow sankey data of a ledger seed as JSON.
package main

import (
	"os"

	"sure/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
