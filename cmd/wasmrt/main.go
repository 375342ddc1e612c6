// Command wasmrt is a small inspector and conformance checker for the
// runtime support core in internal/rt.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	glog "github.com/zboralski/wasmrt/internal/log"
)

var (
	verbose    bool
	quiet      bool
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wasmrt",
		Short: "Inspect and exercise the WebAssembly runtime support core",
		Long: `wasmrt drives the memory, table, numeric, and float primitives in
internal/rt directly, without a surrounding module loader or translator.

Examples:
  wasmrt check              # run the boundary-scenario conformance suite
  wasmrt check -v           # same, with debug-level runtime logging
  wasmrt script repl.js     # run a goja script against a fresh instance
  wasmrt tui                # interactive memory hex-dump inspector`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			glog.Init(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode (summary and failures only)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML runtime configuration file")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newScriptCmd())
	rootCmd.AddCommand(newTUICmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
