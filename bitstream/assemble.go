package bitstream

import (
	"fmt"

	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/doda"
)

// Bitstream is the full PE array's program memory: one word per
// (cluster, pe) slot, in cluster-major order.
type Bitstream [doda.NumCluster][doda.PESPerCluster]Word

// ErrCapacityExceeded is returned by Assemble when a node's PE index
// does not land inside the array.
type ErrCapacityExceeded struct {
	NodeID  string
	PEIndex int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("CapacityExceeded: node %q: pe_index %d exceeds array capacity (%d PEs)",
		e.NodeID, e.PEIndex, doda.TotalPEs)
}

// Assemble encodes every node in d and places it at its (cluster, pe)
// slot, filling every other slot with an inert nil instruction bound
// to its own physical index.
func Assemble(d *dfg.MapperDFG) (Bitstream, error) {
	var bs Bitstream

	for cluster := 0; cluster < doda.NumCluster; cluster++ {
		for pe := 0; pe < doda.PESPerCluster; pe++ {
			idx := cluster*doda.PESPerCluster + pe
			bs[cluster][pe] = nilWord(idx)
		}
	}

	for _, n := range d.Nodes() {
		if n.PEIndex < 0 || n.PEIndex >= doda.TotalPEs {
			return Bitstream{}, &ErrCapacityExceeded{NodeID: n.ID, PEIndex: n.PEIndex}
		}
		cluster := n.PEIndex / doda.PESPerCluster
		pe := n.PEIndex % doda.PESPerCluster

		word, err := Encode(n)
		if err != nil {
			return Bitstream{}, err
		}
		bs[cluster][pe] = word
	}

	return bs, nil
}
