// Package bitstream encodes Mapper DFG nodes into fixed-width program
// memory words and assembles them into the per-cluster array the
// array's program memory is loaded with.
package bitstream

import (
	"math/big"
	"strings"

	"github.com/sarchlab/doda/doda"
)

// Word is a single PROG_MEM_WIDTH-bit program memory word. Fields are
// packed from the least-significant bit upward, matching the
// hardware's own bit numbering — this ordering is the wire contract,
// not an implementation detail. math/big.Int is the only practical
// standard-library type wide enough to hold a 128-bit word without a
// third-party arbitrary-width-integer library in the corpus — see
// DESIGN.md.
type Word struct {
	bits big.Int
}

// SetField writes the low `width` bits of value at bit offset
// `offset` (0 = least significant bit of the word). Values wider than
// the field are silently truncated to its low bits.
func (w *Word) SetField(offset, width int, value uint64) {
	mask := fieldMask(width)
	value &= mask

	var v big.Int
	v.SetUint64(value)
	v.Lsh(&v, uint(offset))
	w.bits.Or(&w.bits, &v)
}

// Field reads back the `width` bits at bit offset `offset`.
func (w *Word) Field(offset, width int) uint64 {
	var v big.Int
	v.Rsh(&w.bits, uint(offset))
	var mask big.Int
	mask.SetUint64(fieldMask(width))
	v.And(&v, &mask)
	return v.Uint64()
}

func fieldMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// String renders the word as exactly PROG_MEM_WIDTH ASCII '0'/'1'
// characters, most significant bit first.
func (w *Word) String() string {
	var sb strings.Builder
	sb.Grow(doda.ProgMemWidth)
	for i := doda.ProgMemWidth - 1; i >= 0; i-- {
		if w.bits.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
