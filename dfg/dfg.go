// Package dfg is the in-memory Mapper DFG: nodes keyed by string id,
// each carrying an opcode, ordered inputs/outputs, an initial-output
// latch, and a PE index assigned at construction time.
package dfg

import (
	"fmt"
	"sort"

	"github.com/sarchlab/doda/diagnostics"
	"github.com/sarchlab/doda/opcode"
)

// PEIndexAllocator hands out monotonically increasing PE indices,
// threaded through an instance-owned counter rather than a package
// global, so two DFGs built in the same process never share state.
type PEIndexAllocator struct {
	next int
}

// NewPEIndexAllocator returns an allocator starting at zero.
func NewPEIndexAllocator() *PEIndexAllocator {
	return &PEIndexAllocator{next: 0}
}

// Next returns the next PE index and advances the allocator.
func (a *PEIndexAllocator) Next() int {
	v := a.next
	a.next++
	return v
}

// MapperDFG is the full in-memory graph for one compile call.
type MapperDFG struct {
	nodes     map[string]*Node
	allocator *PEIndexAllocator

	// overwriteOnDuplicate restores the original source's silent
	// overwrite-with-warning behavior for AddNode on an existing id.
	// Rejecting is the default; WithOverwriteOnDuplicate opts back in.
	overwriteOnDuplicate bool
}

// Option configures a MapperDFG at construction time.
type Option func(*MapperDFG)

// WithOverwriteOnDuplicate restores the original source's silent
// overwrite-on-duplicate-id behavior (with a diagnostic in place of a
// stderr warning).
func WithOverwriteOnDuplicate() Option {
	return func(d *MapperDFG) { d.overwriteOnDuplicate = true }
}

// New creates an empty Mapper DFG with a fresh, instance-owned PE
// index allocator.
func New(opts ...Option) *MapperDFG {
	d := &MapperDFG{
		nodes:     make(map[string]*Node),
		allocator: NewPEIndexAllocator(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ErrDuplicateNode is returned by AddNode when a node with the given
// id already exists and the DFG was not built WithOverwriteOnDuplicate.
var ErrDuplicateNode = fmt.Errorf("duplicate node id")

// AddNode creates a node, assigns it the next PE index, and registers
// it in the DFG. By default a duplicate id is rejected; pass
// WithOverwriteOnDuplicate at construction to replace it instead (the
// overwrite is reported as a warning on the sink; a rejection only
// returns ErrDuplicateNode).
func (d *MapperDFG) AddNode(
	sink *diagnostics.Sink,
	id string,
	op opcode.Opcode,
	initialOutputUsed bool,
	initialOutput int32,
) (*Node, error) {
	if _, exists := d.nodes[id]; exists {
		if !d.overwriteOnDuplicate {
			return nil, fmt.Errorf("add_node %q: %w", id, ErrDuplicateNode)
		}
		if sink != nil {
			sink.Warnf("dfg.AddNode", id, "node already exists, overwriting")
		}
	}

	n := newNode(id, op, initialOutputUsed, initialOutput, d.allocator.Next())
	d.nodes[id] = n
	return n, nil
}

// GetNode returns the node with the given id, if present.
func (d *MapperDFG) GetNode(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given id exists.
func (d *MapperDFG) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Size returns the number of nodes in the DFG.
func (d *MapperDFG) Size() int {
	return len(d.nodes)
}

// Nodes returns every node in the DFG, sorted by ascending PE index.
// Because PE indices are assigned monotonically at construction time,
// this is equivalent to iterating in insertion order.
func (d *MapperDFG) Nodes() []*Node {
	out := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PEIndex < out[j].PEIndex })
	return out
}

// ResolveReferences runs the resolution pass: for every node, for
// every non-constant input, set ResolvedPE from the producer's PE
// index; for every output, set ResolvedPE from the consumer's PE
// index. Unresolved references are reported as diagnostics rather
// than treated as fatal: an external input name not produced by any
// DFG node is legal (it refers to the streaming load), so a missing
// producer is a warning, not an error.
func (d *MapperDFG) ResolveReferences(sink *diagnostics.Sink) {
	peByID := make(map[string]int, len(d.nodes))
	for id, n := range d.nodes {
		peByID[id] = n.PEIndex
	}

	for _, n := range d.nodes {
		for i := range n.Inputs {
			in := &n.Inputs[i]
			if in.IsConst {
				continue
			}
			if pe, ok := peByID[in.SourceID]; ok {
				in.ResolvedPE = pe
			} else {
				sink.Warnf("dfg.resolve", n.ID,
					"could not resolve %s input referencing %q", in.Kind, in.SourceID)
			}
		}

		for i := range n.Outputs {
			out := &n.Outputs[i]
			if pe, ok := peByID[out.ConsumerID]; ok {
				out.ResolvedPE = pe
			} else {
				sink.Warnf("dfg.resolve", n.ID,
					"could not resolve output consumer %q", out.ConsumerID)
			}
		}
	}
}
