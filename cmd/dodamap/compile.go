package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/doda/bitstream"
	"github.com/sarchlab/doda/mapper"
	"github.com/sarchlab/doda/report"
)

var compileOutPath string

var compileCmd = &cobra.Command{
	Use:   "compile <dfg.json>",
	Short: "Compile a DFG JSON document into a textual bitstream file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutPath, "out", "o", "", "output bitstream path (default: stdout)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	result, err := mapper.Compile(args[0])
	if err != nil {
		return fmt.Errorf("compile %s: %w", args[0], err)
	}

	out := os.Stdout
	if compileOutPath != "" {
		f, err := os.Create(compileOutPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", compileOutPath, err)
		}
		defer f.Close()
		out = f
	}

	if err := bitstream.WriteText(out, result.Bitstream); err != nil {
		return fmt.Errorf("write bitstream: %w", err)
	}

	report.Diagnostics(os.Stderr, result.Diagnostics)
	report.Summary(os.Stderr, result.Result.DFG)

	return nil
}
