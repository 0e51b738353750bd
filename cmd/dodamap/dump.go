package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/doda/dfgtext"
	"github.com/sarchlab/doda/mapper"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <dfg.json>",
	Short: "Build a DFG JSON document and print its Mapper_Node textual dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	built, err := mapper.Build(args[0])
	if err != nil {
		return fmt.Errorf("build %s: %w", args[0], err)
	}

	fmt.Print(dfgtext.Dump(built.DFG))
	return nil
}
