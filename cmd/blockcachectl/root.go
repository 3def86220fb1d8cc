// Command blockcachectl drives the cache from the command line: a
// synthetic-workload benchmark and a scripted demo of the handle API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "blockcachectl",
	Short: "Drive the sharded cache from the command line",
	Long: `blockcachectl exercises a sharded, reference-counted LRU cache
outside of a Go test binary: it can run a synthetic concurrent workload and
report hit/miss/eviction counters, or step through the handle API against a
small scripted demo.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output machine-readable JSON")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}
