// Package monitor replays a functional simulation's trace through an
// akita ticking component, so the existing monitoring/engine
// machinery (akita/v4's sim.Engine, monitoring.Monitor) can observe a
// DFG's execution the same way it observes a CGRA device built from
// config.DeviceBuilder. It does not model PE-to-PE timing; it gives
// the already-computed functional trace a cycle number and a place on
// the engine's virtual time axis, so downstream tooling built against
// akita's Hookable/monitoring interfaces keeps working.
package monitor

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/doda"
	"github.com/sarchlab/doda/simulate"
)

// Comp is a sim.TickingComponent that steps through a Mapper DFG's
// functional trace one iteration per tick, logging each iteration at
// doda.LevelCompile. Register it with a monitoring.Monitor the same
// way config.DeviceBuilder registers a tile's core.
type Comp struct {
	*sim.TickingComponent

	name   string
	interp *simulate.Interpreter
	input  []int32
	result *simulate.Result
	cursor int
	err    error
}

// Builder constructs a Comp.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	monitor *monitoring.Monitor
}

// NewBuilder returns a Builder with 1 GHz as the default tick rate.
func NewBuilder() Builder {
	return Builder{freq: 1 * sim.GHz}
}

// WithEngine sets the engine that drives the replay.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency used to space out trace entries.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMonitor registers the built component with a monitor.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder {
	b.monitor = monitor
	return b
}

// Build constructs a Comp wired to replay d's functional trace for
// the given input vector.
func (b Builder) Build(name string, d *dfg.MapperDFG, input []int32) (*Comp, error) {
	it, err := simulate.New(d)
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	c := &Comp{name: name, interp: it, input: input}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	if b.monitor != nil {
		b.monitor.RegisterComponent(c)
	}

	return c, nil
}

// Tick replays the next recorded trace entry, one per cycle. It runs
// the interpreter to completion on the first call, then spends one
// tick per iteration already computed rather than re-deriving values
// live: the functional result is deterministic and cheap, so there is
// nothing to gain from recomputing it tick by tick.
func (c *Comp) Tick(now sim.VTimeInSec) (madeProgress bool) {
	if c.result == nil {
		res, err := c.interp.Run(c.input)
		if err != nil {
			c.err = err
			return false
		}
		c.result = res
	}

	if c.cursor >= len(c.result.Trace) {
		return false
	}

	t := c.result.Trace[c.cursor]
	doda.Trace("monitor tick",
		"component", c.name,
		"now", now,
		"cycle", c.cursor,
		"counter", t.Counter,
		"continue", t.Continue,
		"stored", t.Stored,
		"store_value", t.StoredVal,
	)
	c.cursor++

	return true
}

// Err returns the error the replayed interpreter run failed with, if
// any. Check it after the engine has run to completion.
func (c *Comp) Err() error {
	return c.err
}

// Output returns the output vector produced by the replayed run. It
// is only valid once the engine has ticked the component to
// completion (Tick returning false).
func (c *Comp) Output() []int32 {
	if c.result == nil {
		return nil
	}
	return c.result.Output
}
