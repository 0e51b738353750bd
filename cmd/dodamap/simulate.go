package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/mapper"
	"github.com/sarchlab/doda/simulate"
	"github.com/sarchlab/doda/simulate/monitor"
)

var (
	simulateInput         string
	simulateCycleAccurate bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <dfg.json>",
	Short: "Functionally simulate a DFG JSON document against an input vector",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateInput, "input", "", "comma-separated input vector, e.g. 1,2,3,4")
	simulateCmd.Flags().BoolVar(&simulateCycleAccurate, "cycle-accurate", false,
		"replay the run through an akita engine instead of calling the interpreter directly")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	built, err := mapper.Build(args[0])
	if err != nil {
		return fmt.Errorf("build %s: %w", args[0], err)
	}

	input, err := parseVector(simulateInput)
	if err != nil {
		return fmt.Errorf("--input: %w", err)
	}

	if simulateCycleAccurate {
		return runSimulateCycleAccurate(built.DFG, input)
	}

	it, err := simulate.New(built.DFG)
	if err != nil {
		return err
	}

	res, err := it.Run(input)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	fmt.Printf("output: %v\n", res.Output)
	return nil
}

// runSimulateCycleAccurate drives the same functional trace through
// simulate/monitor's akita TickingComponent, so the run is observable
// on an engine's virtual time axis instead of running to completion
// in a single call.
func runSimulateCycleAccurate(d *dfg.MapperDFG, input []int32) error {
	engine := sim.NewSerialEngine()
	mon := monitoring.NewMonitor()
	mon.RegisterEngine(engine)

	c, err := monitor.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMonitor(mon).
		Build("Simulate", d, input)
	if err != nil {
		return fmt.Errorf("simulate --cycle-accurate: %w", err)
	}

	if err := engine.Run(); err != nil {
		return fmt.Errorf("simulate --cycle-accurate: %w", err)
	}
	if c.Err() != nil {
		return fmt.Errorf("simulate: %w", c.Err())
	}

	fmt.Printf("output: %v\n", c.Output())
	return nil
}

func parseVector(raw string) ([]int32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("element %d (%q): %w", i, p, err)
		}
		out[i] = int32(v)
	}
	return out, nil
}
