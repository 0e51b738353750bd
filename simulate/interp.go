// Package simulate is a functional (non-cycle-accurate) interpreter
// over a Mapper DFG. It exists to validate a compiled DFG's behavior
// against an expected output vector without a hardware model: it
// evaluates the streaming loop the mapper builds (counter, load,
// kernel, conditional store, terminate) directly against the DFG's
// node graph, one input element per iteration.
//
// The cycle-accurate hardware model is explicitly out of scope for
// this compiler (see the downstream consumer note); this package is
// the lighter, pure-Go stand-in used for self-checking a compile.
package simulate

import (
	"fmt"

	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/opcode"
)

// Trace is one executed iteration of the streaming loop, useful for
// debugging a mismatch between expected and actual output.
type Trace struct {
	Counter   int32
	Continue  bool
	Values    map[string]int32
	Stored    bool
	StoredVal int32
}

// Result is the product of a full Run: the output vector the loop
// produced and one Trace per iteration actually executed.
type Result struct {
	Output []int32
	Trace  []Trace
}

// Interpreter evaluates a Mapper DFG's streaming loop against an
// input vector.
type Interpreter struct {
	d *dfg.MapperDFG

	counter  *dfg.Node
	cont     *dfg.Node
	term     *dfg.Node
	store    *dfg.Node
	loadNode *dfg.Node
}

// New builds an Interpreter for d, locating the five fixed
// infrastructure nodes the mapper always injects by their
// conventional ids/opcodes.
func New(d *dfg.MapperDFG) (*Interpreter, error) {
	it := &Interpreter{d: d}

	var ok bool
	if it.counter, ok = d.GetNode("counter"); !ok {
		return nil, fmt.Errorf("simulate: DFG has no \"counter\" node")
	}
	if it.cont, ok = d.GetNode("continue_condition"); !ok {
		return nil, fmt.Errorf("simulate: DFG has no \"continue_condition\" node")
	}
	if it.term, ok = d.GetNode("terminal_condition"); !ok {
		return nil, fmt.Errorf("simulate: DFG has no \"terminal_condition\" node")
	}
	if it.store, ok = d.GetNode("store_output"); !ok {
		return nil, fmt.Errorf("simulate: DFG has no \"store_output\" node")
	}
	for _, n := range d.Nodes() {
		if n.Op == opcode.LOAD {
			it.loadNode = n
			break
		}
	}
	if it.loadNode == nil {
		return nil, fmt.Errorf("simulate: DFG has no LOAD node")
	}

	return it, nil
}

// Run executes the streaming loop for up to len(input)+1 iterations,
// stopping as soon as terminal_condition is true. It returns the
// output vector store_output wrote and a trace of every iteration.
func (it *Interpreter) Run(input []int32) (*Result, error) {
	res := &Result{}

	var counterVal int32
	for iter := 0; iter < len(input)+1; iter++ {
		values := make(map[string]int32, it.d.Size())
		values[it.counter.ID] = counterVal
		if int(counterVal) < len(input) {
			values[it.loadNode.ID] = input[counterVal]
		}

		if err := it.evaluateAll(values); err != nil {
			return nil, err
		}

		tr := Trace{Counter: counterVal, Values: values}

		if values[it.term.ID] != 0 {
			res.Trace = append(res.Trace, tr)
			break
		}

		tr.Continue = values[it.cont.ID] != 0
		if tr.Continue {
			storeInput, ok := it.store.Input(dfg.I2)
			if ok && !storeInput.IsConst {
				if v, ok := values[storeInput.SourceID]; ok {
					tr.Stored = true
					tr.StoredVal = v
					res.Output = append(res.Output, v)
				}
			}
		}

		res.Trace = append(res.Trace, tr)
		counterVal++
	}

	return res, nil
}

// evaluateAll computes every node's value for the current iteration
// into values, repeatedly scanning the node list until no further
// progress is made. This mirrors a readiness-driven execution loop
// rather than requiring values to pre-sort the DFG topologically: a
// node is evaluated once every non-constant operand it reads either
// already has a value this iteration, or is itself (the counter's
// self-loop, the only cycle the builder allows).
func (it *Interpreter) evaluateAll(values map[string]int32) error {
	nodes := it.d.Nodes()

	for {
		progress := false
		pending := 0

		for _, n := range nodes {
			if _, done := values[n.ID]; done {
				continue
			}
			pending++

			if !it.operandsReady(n, values) {
				continue
			}

			v, err := it.evaluate(n, values)
			if err != nil {
				return err
			}
			values[n.ID] = v
			progress = true
			pending--
		}

		if pending == 0 {
			return nil
		}
		if !progress {
			return fmt.Errorf("simulate: %d node(s) could not be evaluated (unresolved or cyclic inputs)", pending)
		}
	}
}

func (it *Interpreter) operandsReady(n *dfg.Node, values map[string]int32) bool {
	for _, kind := range []dfg.InputKind{dfg.I1, dfg.I2, dfg.Pred} {
		in, ok := n.Input(kind)
		if !ok || in.IsConst {
			continue
		}
		if in.SourceID == n.ID {
			continue // self-loop: evaluate() reads the prior iteration's value
		}
		if _, ok := values[in.SourceID]; !ok {
			return false
		}
	}
	return true
}

func (it *Interpreter) operandValue(n *dfg.Node, kind dfg.InputKind, values map[string]int32) int32 {
	in, ok := n.Input(kind)
	if !ok {
		return 0
	}
	if in.IsConst {
		return in.ConstValue
	}
	if in.SourceID == n.ID {
		return values[n.ID] // stale: not yet set this iteration for a self-loop read
	}
	return values[in.SourceID]
}

// evaluate computes n's output value from its already-ready operands,
// per the opcode's integer ALU semantics.
func (it *Interpreter) evaluate(n *dfg.Node, values map[string]int32) (int32, error) {
	i1 := it.operandValue(n, dfg.I1, values)
	i2 := it.operandValue(n, dfg.I2, values)

	switch n.Op {
	case opcode.NIL:
		return 0, nil
	case opcode.ADD:
		return i1 + i2, nil
	case opcode.SUB:
		return i1 - i2, nil
	case opcode.MUL:
		return i1 * i2, nil
	case opcode.LS:
		return i1 << uint32(i2), nil
	case opcode.RS:
		return i1 >> uint32(i2), nil
	case opcode.AND:
		return i1 & i2, nil
	case opcode.OR:
		return i1 | i2, nil
	case opcode.XOR:
		return i1 ^ i2, nil
	case opcode.SELECT:
		if predTrue(n, values) {
			return i1, nil
		}
		return i2, nil
	case opcode.CMP:
		return boolInt(i1 == i2), nil
	case opcode.CNE:
		return boolInt(i1 != i2), nil
	case opcode.CLT:
		return boolInt(i1 < i2), nil
	case opcode.CLTE:
		return boolInt(i1 <= i2), nil
	case opcode.CGT:
		return boolInt(i1 > i2), nil
	case opcode.CGTE:
		return boolInt(i1 >= i2), nil
	case opcode.LOAD:
		return values[n.ID], nil
	case opcode.STORE:
		return i2, nil
	case opcode.JUMP:
		return i1, nil
	default:
		return 0, fmt.Errorf("simulate: node %q: no functional semantics for opcode %s", n.ID, n.Op)
	}
}

func predTrue(n *dfg.Node, values map[string]int32) bool {
	pred, ok := n.Input(dfg.Pred)
	if !ok {
		return true
	}
	if pred.IsConst {
		return pred.ConstValue != 0
	}
	return values[pred.SourceID] != 0
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
