// Package mapper is the Graph Builder: it ingests a parsed JSON DFG
// and a target vector length and produces the complete Mapper DFG,
// with infrastructure nodes injected in a fixed order and every
// reference resolved to a PE index.
package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/sarchlab/doda/diagnostics"
	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/doda"
	"github.com/sarchlab/doda/opcode"
)

// Option configures a single Build/Compile call.
type Option func(*options)

type options struct {
	source               JSONSource
	overwriteOnDuplicate bool
}

// WithJSONSource overrides how the raw DFG JSON bytes are loaded. The
// default reads from the local filesystem; tests substitute a mock
// (see mock_source_test.go) to exercise malformed-input paths without
// touching disk.
func WithJSONSource(src JSONSource) Option {
	return func(o *options) { o.source = src }
}

// WithOverwriteOnDuplicate restores the original source's
// silent-overwrite-on-duplicate-node-id behavior. See dfg.WithOverwriteOnDuplicate.
func WithOverwriteOnDuplicate() Option {
	return func(o *options) { o.overwriteOnDuplicate = true }
}

func resolveOptions(opts []Option) options {
	o := options{source: fileJSONSource{}}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Result is the product of a single Build call: the fully constructed
// and resolved Mapper DFG, the derived element count, and every
// diagnostic reported along the way.
type Result struct {
	DFG         *dfg.MapperDFG
	NElements   int
	Diagnostics []diagnostics.Diagnostic
}

// BuildFromBytes constructs the Mapper DFG from raw DFG JSON bytes.
// This is the core of the Graph Builder: it is also the entry point
// exercised directly by tests that want to inspect the DFG before it
// is encoded into a bitstream.
func BuildFromBytes(raw []byte, opts ...Option) (*Result, error) {
	o := resolveOptions(opts)

	var doc dfgDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &CompileError{Kind: SchemaError, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	sink := &diagnostics.Sink{}

	nElements := extractVectorSize(sink, doc.RuntimeMetadata)

	var dfgOpts []dfg.Option
	if o.overwriteOnDuplicate {
		dfgOpts = append(dfgOpts, dfg.WithOverwriteOnDuplicate())
	}
	d := dfg.New(dfgOpts...)

	if err := constructGraph(d, sink, &doc, nElements); err != nil {
		return nil, err
	}

	d.ResolveReferences(sink)

	return &Result{DFG: d, NElements: nElements, Diagnostics: sink.All()}, nil
}

// Build loads the DFG JSON document from jsonPath (via the configured
// JSONSource) and constructs the Mapper DFG.
func Build(jsonPath string, opts ...Option) (*Result, error) {
	o := resolveOptions(opts)

	raw, err := o.source.Load(jsonPath)
	if err != nil {
		return nil, &CompileError{Kind: SchemaError, Reason: fmt.Sprintf("could not read %s: %v", jsonPath, err)}
	}

	return BuildFromBytes(raw, opts...)
}

// extractVectorSize derives N_elements as input_size_in_bytes / 4. If
// runtime_metadata is absent, the builder still proceeds but flags
// N_elements = 0. input_size_in_bytes is taken as given (never
// recomputed as element_count*4): a value that is not a multiple of 4
// is flagged rather than silently handled, documenting the known
// upstream sizeof(vector)-vs-byte-count defect.
func extractVectorSize(sink *diagnostics.Sink, meta *runtimeMetadataSpec) int {
	if meta == nil {
		sink.Warnf("mapper.metadata", "", "missing runtime_metadata; proceeding with N_elements=0")
		return 0
	}
	if meta.InputSizeInBytes%4 != 0 {
		sink.Warnf("mapper.metadata", "",
			"runtime_metadata.input_size_in_bytes=%d is not a multiple of 4 "+
				"(known upstream defect: the runtime tags input_size_in_bytes "+
				"with sizeof(std::vector<uint32_t>) rather than element_count*4)",
			meta.InputSizeInBytes)
	}
	return meta.InputSizeInBytes / 4
}

// constructGraph builds the Mapper DFG in a fixed order: counter,
// continue_condition, terminal_condition, store_output, terminal, the
// single input LOAD node, then the kernel nodes in JSON order,
// followed by the output->store_output consumer edge.
func constructGraph(d *dfg.MapperDFG, sink *diagnostics.Sink, doc *dfgDocument, nElements int) error {
	if !doc.Output.set || doc.Output.ID == "" {
		return &CompileError{Kind: SchemaError, Reason: "missing or invalid 'output' field"}
	}
	if len(doc.Inputs) != 1 {
		return &CompileError{Kind: SchemaError, Reason: fmt.Sprintf("'inputs' array must have exactly 1 element, got %d", len(doc.Inputs))}
	}
	inputName := doc.Inputs[0]

	counter, err := addInfraNode(d, sink, "counter", opcode.ADD, true, 0)
	if err != nil {
		return err
	}
	mustAddSource(counter, dfg.I1, "counter")
	mustAddConst(counter, dfg.I2, 1)
	counter.AddOutput("counter")

	continueCond, err := addInfraNode(d, sink, "continue_condition", opcode.CLT, false, 0)
	if err != nil {
		return err
	}
	mustAddSource(continueCond, dfg.I1, "counter")
	counter.AddOutput("continue_condition")
	mustAddConst(continueCond, dfg.I2, int32(nElements))

	terminalCond, err := addInfraNode(d, sink, "terminal_condition", opcode.CGTE, false, 0)
	if err != nil {
		return err
	}
	mustAddSource(terminalCond, dfg.I1, "counter")
	counter.AddOutput("terminal_condition")
	mustAddConst(terminalCond, dfg.I2, int32(nElements))

	storeOutput, err := addInfraNode(d, sink, "store_output", opcode.STORE, false, 0)
	if err != nil {
		return err
	}
	mustAddSource(storeOutput, dfg.I1, "counter")
	counter.AddOutput("store_output")
	mustAddSource(storeOutput, dfg.I2, doc.Output.ID)
	mustAddSource(storeOutput, dfg.Pred, "continue_condition")
	continueCond.AddOutput("store_output")

	terminal, err := addInfraNode(d, sink, "terminal", opcode.JUMP, false, 0)
	if err != nil {
		return err
	}
	mustAddConst(terminal, dfg.I1, doda.TerminalJumpTarget)
	mustAddSource(terminal, dfg.I2, "store_output")
	storeOutput.AddOutput("terminal")
	mustAddSource(terminal, dfg.Pred, "terminal_condition")
	terminalCond.AddOutput("terminal")

	load, err := addInfraNode(d, sink, inputName, opcode.LOAD, false, 0)
	if err != nil {
		return err
	}
	mustAddSource(load, dfg.I1, "counter")
	counter.AddOutput(inputName)
	mustAddSource(load, dfg.Pred, "continue_condition")
	continueCond.AddOutput(inputName)

	if err := ingestKernelNodes(d, sink, doc.Nodes); err != nil {
		return err
	}

	if producer, ok := d.GetNode(doc.Output.ID); ok {
		producer.AddOutput("store_output")
	} else {
		sink.Warnf("mapper.build", "store_output",
			"output producer %q not found in DFG; i2 reference will remain unresolved", doc.Output.ID)
	}

	return nil
}

// addInfraNode wraps dfg.AddNode, translating ErrDuplicateNode (which
// cannot happen for infrastructure ids on a fresh DFG, but would
// signal a caller error if it somehow did) into a fatal CompileError.
func addInfraNode(d *dfg.MapperDFG, sink *diagnostics.Sink, id string, op opcode.Opcode, initialOutputUsed bool, initialOutput int32) (*dfg.Node, error) {
	n, err := d.AddNode(sink, id, op, initialOutputUsed, initialOutput)
	if err != nil {
		return nil, &CompileError{Kind: SchemaError, NodeID: id, Reason: err.Error()}
	}
	return n, nil
}

// mustAddSource/mustAddConst panic on error because infrastructure
// node wiring is fully determined by this function and a failure
// would indicate a programming error in the builder itself, not a
// malformed input (the invariants these calls protect - at most one
// operand per kind - are established one line above each call).
func mustAddSource(n *dfg.Node, kind dfg.InputKind, sourceID string) {
	if err := n.AddSourceInput(kind, sourceID); err != nil {
		panic(err)
	}
}

func mustAddConst(n *dfg.Node, kind dfg.InputKind, value int32) {
	if err := n.AddConstInput(kind, value); err != nil {
		panic(err)
	}
}

// ingestKernelNodes adds each JSON-declared kernel node, in order,
// with its inputs, registering reverse (producer->consumer) edges for
// every source-reference input whose producer already exists in the
// DFG.
func ingestKernelNodes(d *dfg.MapperDFG, sink *diagnostics.Sink, nodes []nodeSpec) error {
	for _, ns := range nodes {
		op := opcode.Parse(ns.Op)
		if op == opcode.UNSUPPORTED {
			return &CompileError{Kind: UnsupportedOpcode, NodeID: ns.ID,
				Reason: fmt.Sprintf("unsupported operation %q", ns.Op)}
		}

		n, err := d.AddNode(sink, ns.ID, op, false, 0)
		if err != nil {
			return &CompileError{Kind: SchemaError, NodeID: ns.ID, Reason: err.Error()}
		}

		for _, in := range ns.Inputs {
			kind := dfg.InputKind(in.Type)
			switch {
			case in.ID != nil:
				if err := n.AddSourceInput(kind, *in.ID); err != nil {
					return &CompileError{Kind: SchemaError, NodeID: ns.ID, Reason: err.Error()}
				}
				if producer, ok := d.GetNode(*in.ID); ok {
					producer.AddOutput(ns.ID)
				}
			case in.Value != nil:
				if err := n.AddConstInput(kind, int32(*in.Value)); err != nil {
					return &CompileError{Kind: SchemaError, NodeID: ns.ID, Reason: err.Error()}
				}
			default:
				sink.Warnf("mapper.ingest", ns.ID, "input of type %q has neither 'id' nor 'value'; skipped", in.Type)
			}
		}
	}

	if d.Size() > doda.TotalPEs {
		return &CompileError{Kind: CapacityExceeded,
			Reason: fmt.Sprintf("DFG requires %d PE slots, array has only %d", d.Size(), doda.TotalPEs)}
	}

	return nil
}
