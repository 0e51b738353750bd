package bitstream

import (
	"fmt"

	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/doda"
)

// ErrFieldOverflow is returned by Encode when the packed word's bit
// length exceeds PROG_MEM_WIDTH, or when a consumer's PE index falls
// in a cluster outside the array. Field values wider than their field
// are truncated silently and do not produce this error. It indicates
// a miscomputed constant or index upstream, never an expected runtime
// condition.
type ErrFieldOverflow struct {
	NodeID string
	Reason string
}

func (e *ErrFieldOverflow) Error() string {
	return fmt.Sprintf("FieldOverflow: node %q: %s", e.NodeID, e.Reason)
}

// nilWord returns an inert instruction word whose only non-zero field
// is pe_idx, used to fill any slot not claimed by a DFG node.
func nilWord(peIndex int) Word {
	var w Word
	w.SetField(offPEIdx, widthPEIdx, uint64(peIndex))
	return w
}

// Encode packs a single node into its PROG_MEM_WIDTH-bit instruction
// word.
func Encode(n *dfg.Node) (Word, error) {
	var w Word

	w.SetField(offPEIdx, widthPEIdx, uint64(n.PEIndex))

	if err := encodeOperand(&w, n, dfg.I1, offI1Used, offI1Const, offI1Value); err != nil {
		return Word{}, err
	}
	if err := encodeOperand(&w, n, dfg.I2, offI2Used, offI2Const, offI2Value); err != nil {
		return Word{}, err
	}

	if pred, ok := n.Input(dfg.Pred); ok {
		w.SetField(offPredUsed, widthPredUsed, 1)
		w.SetField(offPredSrc, widthPredSrc, uint64(int64(pred.ResolvedPE))&fieldMask(widthPredSrc))
	}

	if n.InitialOutputUsed {
		w.SetField(offInitUsed, widthInitUsed, 1)
		w.SetField(offInitValue, widthInitValue, encodeSigned(int64(n.InitialOutput), widthInitValue))
	}

	w.SetField(offOpcode, widthOpcode, uint64(n.Op))

	mask, err := destinationOneHot(n)
	if err != nil {
		return Word{}, err
	}
	w.SetField(offDstOH, widthDstOH, uint64(mask))

	if w.bits.BitLen() > doda.ProgMemWidth {
		return Word{}, &ErrFieldOverflow{NodeID: n.ID,
			Reason: fmt.Sprintf("packed word needs %d bits, exceeds PROG_MEM_WIDTH=%d", w.bits.BitLen(), doda.ProgMemWidth)}
	}

	return w, nil
}

// encodeOperand fills the used/const-used/value triple for an i1 or
// i2 operand.
func encodeOperand(w *Word, n *dfg.Node, kind dfg.InputKind, offUsed, offConst, offValue int) error {
	in, ok := n.Input(kind)
	if !ok {
		return nil
	}

	w.SetField(offUsed, 1, 1)
	if in.IsConst {
		w.SetField(offConst, 1, 1)
		w.SetField(offValue, widthI1Value, encodeSigned(int64(in.ConstValue), widthI1Value))
		return nil
	}

	if in.ResolvedPE == dfg.UnresolvedPE {
		w.SetField(offValue, widthI1Value, encodeSigned(-1, widthI1Value))
		return nil
	}
	w.SetField(offValue, widthI1Value, uint64(in.ResolvedPE))
	return nil
}

// encodeSigned returns the low `width` bits of value's two's
// complement representation.
func encodeSigned(value int64, width int) uint64 {
	return uint64(value) & fieldMask(width)
}

// destinationOneHot computes the one-hot mask of other clusters that
// consume this node's output.
func destinationOneHot(n *dfg.Node) (int, error) {
	thisCluster := n.PEIndex / doda.PESPerCluster
	mask := 0
	for _, out := range n.Outputs {
		if out.ResolvedPE == dfg.UnresolvedPE {
			continue
		}
		consumerCluster := out.ResolvedPE / doda.PESPerCluster
		if consumerCluster == thisCluster {
			continue
		}
		if consumerCluster < 0 || consumerCluster >= doda.NumCluster {
			return 0, &ErrFieldOverflow{NodeID: n.ID,
				Reason: fmt.Sprintf("consumer cluster %d out of range", consumerCluster)}
		}
		mask |= 1 << uint(consumerCluster)
	}
	return mask, nil
}
