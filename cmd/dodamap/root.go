package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/doda/doda"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dodamap",
	Short: "Compile a DFG JSON document into a DODA configuration bitstream",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = doda.LevelCompile
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit compile-phase trace logs")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(roundtripCmd)
	rootCmd.AddCommand(simulateCmd)
}

// Execute runs the root command, translating a RunE error into a
// nonzero exit via atexit, mirroring every teacher sample's use of
// atexit.Exit as the process's single exit point.
func Execute() {
	defer atexit.Exit(0)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
}
