// Command entropyctl is a minimal example binary exercising the
// openentropy-sub002 library surface (SPEC_FULL.md §6): scan available
// sources, collect and score a sample through a chosen conditioning mode,
// or serve the pool's Prometheus collector over HTTP. It is illustrative,
// not a specification of a CLI surface.
//
// Grounded on the corpus's spf13/cobra usage (ja7ad-consumption's
// cmd/consumption) for the root command / flag wiring pattern.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "entropyctl",
		Short: "Inspect and exercise an openentropy-sub002 pool",
		Long: `entropyctl is an example client of the openentropy-sub002 library.
It is not a specification of a production CLI: flags, subcommand names, and
exit codes here are illustrative rather than contractual.`,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML PoolConfig (default: built-in auto-detection)")

	root.AddCommand(newScanCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newServeMetricsCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
