package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/doda/dfgtext"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <dump.txt>",
	Short: "Parse a Mapper_Node textual dump and re-emit it, to check round-trip fidelity",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoundtrip,
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	d, err := dfgtext.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	fmt.Print(dfgtext.Dump(d))
	return nil
}
