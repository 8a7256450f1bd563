// objman inspects the object runtime: it runs the built-in demo, applies
// class manifests, exercises the balanced index and keeps catalog history.
//
// Usage:
//
//	objman demo                  - Run the point scenario step by step
//	objman load <manifest>       - Apply a manifest and show the result
//	objman index [keys...]       - Build a balanced index and report its shape
//	objman catalog <manifest>    - Apply a manifest and record a snapshot
//	objman history [id]          - List snapshots or show one
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.objman, ./configs)
//	--db <path>         - History database (overrides storage.db_path)
//	--log-level <lvl>   - debug, info, warn, error (overrides log.level)
//	--plain             - Plain text tables even on a terminal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagPlain    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "objman",
	Short: "objman - Inspect classes, objects and interfaces",
	Long: `objman drives an introspectable class/object runtime from the terminal.

Available commands:
  demo     - Run the built-in point scenario
  load     - Apply a YAML manifest and print classes, interfaces and objects
  index    - Build a balanced index from keys and check its invariants
  catalog  - Apply a manifest and record a catalog snapshot
  history  - Show recorded catalog snapshots

Examples:
  objman demo
  objman load examples/world.yaml
  objman index 5 3 6 20 4 --dot
  objman index --random 100 --seed 7
  objman catalog examples/world.yaml --label nightly
  objman history 3`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "Plain text output")

	// Add subcommands
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
}
