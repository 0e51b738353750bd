package bitstream

import "github.com/sarchlab/doda/doda"

// Field widths and offsets for the PROG_MEM_WIDTH-bit instruction
// word, packed from the least-significant bit. The order below is
// fixed by the hardware contract; offsets are computed once at
// package init rather than hand-maintained, so widening any single
// field (e.g. DataWidth) keeps every later offset consistent.
//
// Note on the padding width: the field table's own prose adds its
// widths to 126 and padding to 2, but the widths as given (7 + 1 + 1 +
// 32 + 1 + 1 + 32 + 1 + 9 + 1 + 32 + 5 + 4) sum to 127, not 126. The
// widths themselves are each independently grounded in a named
// hardware constant (PEIdxFieldWidth, DataWidth, SrcIdxWidth,
// OpcodeWidth, NumCluster), so they are trusted over the prose's
// arithmetic; padding is computed as whatever remains to reach
// PROG_MEM_WIDTH exactly, which is 1 bit. See DESIGN.md.
// widthPEIdx is a variable because doda.PEIdxFieldWidth is derived at
// package initialization, not a compile-time constant.
var widthPEIdx = doda.PEIdxFieldWidth

const (
	widthI1Used    = 1
	widthI1Const   = 1
	widthI1Value   = doda.DataWidth
	widthI2Used    = 1
	widthI2Const   = 1
	widthI2Value   = doda.DataWidth
	widthPredUsed  = 1
	widthPredSrc   = doda.SrcIdxWidth
	widthInitUsed  = 1
	widthInitValue = doda.DataWidth
	widthOpcode    = doda.OpcodeWidth
	widthDstOH     = doda.NumCluster
)

var (
	offPEIdx     int
	offI1Used    int
	offI1Const   int
	offI1Value   int
	offI2Used    int
	offI2Const   int
	offI2Value   int
	offPredUsed  int
	offPredSrc   int
	offInitUsed  int
	offInitValue int
	offOpcode    int
	offDstOH     int
	offPadding   int
	paddingWidth int
)

func init() {
	off := 0
	next := func(width int) int {
		o := off
		off += width
		return o
	}

	offPEIdx = next(widthPEIdx)
	offI1Used = next(widthI1Used)
	offI1Const = next(widthI1Const)
	offI1Value = next(widthI1Value)
	offI2Used = next(widthI2Used)
	offI2Const = next(widthI2Const)
	offI2Value = next(widthI2Value)
	offPredUsed = next(widthPredUsed)
	offPredSrc = next(widthPredSrc)
	offInitUsed = next(widthInitUsed)
	offInitValue = next(widthInitValue)
	offOpcode = next(widthOpcode)
	offDstOH = next(widthDstOH)
	offPadding = off

	paddingWidth = doda.ProgMemWidth - off
	if paddingWidth < 0 {
		panic("bitstream: field widths exceed PROG_MEM_WIDTH")
	}
}
