package mapper

import (
	"github.com/sarchlab/doda/bitstream"
	"github.com/sarchlab/doda/diagnostics"
)

// CompileResult is the product of a full compile: the assembled
// bitstream, the DFG it was built from (useful for dfgtext dumps and
// the simulate package), the derived element count, and every
// diagnostic collected along the way.
type CompileResult struct {
	Bitstream   bitstream.Bitstream
	Result      *Result
	Diagnostics []diagnostics.Diagnostic
}

// Compile runs the full pipeline: Graph Builder, then reference
// resolution (already folded into Build), then bitstream assembly.
// It is the entry point cmd/dodamap's compile and batch subcommands
// drive; its dump and simulate subcommands call Build directly.
func Compile(jsonPath string, opts ...Option) (*CompileResult, error) {
	built, err := Build(jsonPath, opts...)
	if err != nil {
		return nil, err
	}

	bs, err := bitstream.Assemble(built.DFG)
	if err != nil {
		return nil, err
	}

	return &CompileResult{
		Bitstream:   bs,
		Result:      built,
		Diagnostics: built.Diagnostics,
	}, nil
}

// CompileBytes is Compile's counterpart for already-loaded DFG JSON
// bytes, for callers that do not read the document from a path.
func CompileBytes(raw []byte, opts ...Option) (*CompileResult, error) {
	built, err := BuildFromBytes(raw, opts...)
	if err != nil {
		return nil, err
	}

	bs, err := bitstream.Assemble(built.DFG)
	if err != nil {
		return nil, err
	}

	return &CompileResult{
		Bitstream:   bs,
		Result:      built,
		Diagnostics: built.Diagnostics,
	}, nil
}
