// Package doda holds the hardware constants and shared tracing helpers used
// by every stage of the DFG-to-bitstream compiler.
package doda

// Hardware constants. These are part of the DODA hardware contract: they
// are fixed by the array's physical layout, not tunable by the compiler.
const (
	// DataWidth is the width, in bits, of operand and constant fields.
	DataWidth = 32
	// ProgMemWidth is the width, in bits, of one PE instruction word.
	ProgMemWidth = 128
	// NumCluster is the number of clusters in the array.
	NumCluster = 4
	// PESPerCluster is the number of PEs in a single cluster.
	PESPerCluster = 32
	// OpcodeWidth is the width, in bits, of the opcode field.
	OpcodeWidth = 5
	// SrcPEIdxWidth is the width, in bits, of a PE index local to a cluster.
	SrcPEIdxWidth = 5
	// SrcIdxWidth is SrcPEIdxWidth plus one bit per cluster (cluster is one-hot
	// in the predicate-source field).
	SrcIdxWidth = SrcPEIdxWidth + NumCluster

	// TotalPEs is the total number of PE slots in the array.
	TotalPEs = NumCluster * PESPerCluster
)

// TerminalJumpTarget is the artificial jump target placed in the terminal
// JUMP node's i1 field. Its meaning in the hardware contract could not be
// recovered from the original source; it is kept verbatim as an opaque
// constant rather than reinterpreted.
const TerminalJumpTarget = 100

// log2Ceil returns the number of bits needed to represent values in
// [0, x), i.e. ceil(log2(x)). Used to size the pe_idx field's cluster
// portion (log2Ceil(NumCluster) == 2, giving a 7-bit pe_idx field).
func log2Ceil(x int) int {
	if x <= 0 {
		return 0
	}
	result := 0
	x--
	for x > 0 {
		x >>= 1
		result++
	}
	return result
}

// PEIdxFieldWidth is the width, in bits, of the pe_idx bitstream field:
// SrcPEIdxWidth bits for the in-cluster index plus log2Ceil(NumCluster)
// bits to select the cluster.
var PEIdxFieldWidth = SrcPEIdxWidth + log2Ceil(NumCluster)
