package dfg

import (
	"fmt"

	"github.com/sarchlab/doda/opcode"
)

// InputKind identifies which operand slot of a node an InputSpec fills.
type InputKind string

// The three operand slots a node can declare.
const (
	I1   InputKind = "i1"
	I2   InputKind = "i2"
	Pred InputKind = "pred"
)

// UnresolvedPE is the sentinel PE index carried by an InputSpec/OutputRef
// whose reference has not (yet, or ever) been resolved to a producer's
// or consumer's PE slot.
const UnresolvedPE = -1

// InputSpec is one operand of a Node: either a constant value or a
// reference to another node's output, tagged with the slot it fills.
type InputSpec struct {
	Kind InputKind

	IsConst    bool
	ConstValue int32

	// SourceID is the producer node id; empty when IsConst is true.
	SourceID string
	// ResolvedPE is the producer's PE index, or UnresolvedPE until the
	// resolution pass runs (and forever, if SourceID names no node).
	ResolvedPE int
}

// OutputRef is one consumer of a Node's output.
type OutputRef struct {
	ConsumerID string
	// ResolvedPE is the consumer's PE index, or UnresolvedPE until the
	// resolution pass runs.
	ResolvedPE int
}

// Node is a single vertex of the Mapper DFG: one PE-worth of computation.
type Node struct {
	ID  string
	Op  opcode.Opcode

	Inputs  []InputSpec
	Outputs []OutputRef

	InitialOutputUsed bool
	InitialOutput     int32

	// PEIndex is assigned once, at construction time, from the DFG's
	// allocator. It never changes afterwards.
	PEIndex int
}

func newNode(id string, op opcode.Opcode, initialOutputUsed bool, initialOutput int32, peIndex int) *Node {
	return &Node{
		ID:                id,
		Op:                op,
		InitialOutputUsed: initialOutputUsed,
		InitialOutput:     initialOutput,
		PEIndex:           peIndex,
	}
}

// hasInputKind reports whether an input of the given kind was already
// declared. An operand labeled i1 appears at most once on a node,
// likewise i2 and pred.
func (n *Node) hasInputKind(kind InputKind) bool {
	for _, in := range n.Inputs {
		if in.Kind == kind {
			return true
		}
	}
	return false
}

// AddSourceInput appends an operand that reads another node's output.
func (n *Node) AddSourceInput(kind InputKind, sourceID string) error {
	if n.hasInputKind(kind) {
		return fmt.Errorf("node %q: duplicate %s operand", n.ID, kind)
	}
	n.Inputs = append(n.Inputs, InputSpec{
		Kind:       kind,
		SourceID:   sourceID,
		ResolvedPE: UnresolvedPE,
	})
	return nil
}

// AddConstInput appends a constant-valued operand. Predicate operands
// cannot be constants: a predicate always gates on another node's
// condition output.
func (n *Node) AddConstInput(kind InputKind, value int32) error {
	if kind == Pred {
		return fmt.Errorf("node %q: pred operand cannot be a constant", n.ID)
	}
	if n.hasInputKind(kind) {
		return fmt.Errorf("node %q: duplicate %s operand", n.ID, kind)
	}
	n.Inputs = append(n.Inputs, InputSpec{
		Kind:       kind,
		IsConst:    true,
		ConstValue: value,
		ResolvedPE: UnresolvedPE,
	})
	return nil
}

// AddOutput registers a consumer of this node's output. No
// deduplication is performed: duplicate edges are allowed and
// correctly double-contribute to the destination-cluster mask via set
// union.
func (n *Node) AddOutput(consumerID string) {
	n.Outputs = append(n.Outputs, OutputRef{
		ConsumerID: consumerID,
		ResolvedPE: UnresolvedPE,
	})
}

// Input returns the node's operand of the given kind, if declared.
func (n *Node) Input(kind InputKind) (InputSpec, bool) {
	for _, in := range n.Inputs {
		if in.Kind == kind {
			return in, true
		}
	}
	return InputSpec{}, false
}
