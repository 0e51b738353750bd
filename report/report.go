// Package report renders a compiled bitstream as human-readable
// tables, grounded on the teacher's core.PrintState use of
// jedib0t/go-pretty for dumping per-tile simulator state.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/doda/bitstream"
	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/diagnostics"
	"github.com/sarchlab/doda/doda"
)

// Summary writes a per-cluster occupancy table: how many PE slots in
// each cluster hold a real node versus an inert nil instruction.
func Summary(w io.Writer, d *dfg.MapperDFG) {
	occupied := make([]int, doda.NumCluster)
	for _, n := range d.Nodes() {
		occupied[n.PEIndex/doda.PESPerCluster]++
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Cluster Occupancy")
	t.AppendHeader(table.Row{"Cluster", "Occupied", "Free", "Total"})
	for c := 0; c < doda.NumCluster; c++ {
		t.AppendRow(table.Row{c, occupied[c], doda.PESPerCluster - occupied[c], doda.PESPerCluster})
	}
	t.Render()
}

// Nodes writes one row per node in the DFG, in PE-index order,
// showing its id, opcode, and resolved operand summary.
func Nodes(w io.Writer, d *dfg.MapperDFG) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Mapper Nodes")
	t.AppendHeader(table.Row{"PE", "ID", "Op", "I1", "I2", "Pred"})

	for _, n := range d.Nodes() {
		t.AppendRow(table.Row{
			n.PEIndex,
			n.ID,
			n.Op,
			operandCell(n, dfg.I1),
			operandCell(n, dfg.I2),
			operandCell(n, dfg.Pred),
		})
	}
	t.Render()
}

func operandCell(n *dfg.Node, kind dfg.InputKind) string {
	in, ok := n.Input(kind)
	if !ok {
		return "-"
	}
	if in.IsConst {
		return fmt.Sprintf("const %d", in.ConstValue)
	}
	if in.ResolvedPE == dfg.UnresolvedPE {
		return fmt.Sprintf("%s (unresolved)", in.SourceID)
	}
	return fmt.Sprintf("%s (pe %d)", in.SourceID, in.ResolvedPE)
}

// Diagnostics writes one row per collected diagnostic.
func Diagnostics(w io.Writer, diags []diagnostics.Diagnostic) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Diagnostics")
	t.AppendHeader(table.Row{"Severity", "Stage", "Node", "Message"})
	for _, d := range diags {
		t.AppendRow(table.Row{d.Severity, d.Stage, d.NodeID, d.Message})
	}
	if len(diags) == 0 {
		t.AppendRow(table.Row{"-", "-", "-", "(none)"})
	}
	t.Render()
}

// Bitstream writes one row per (cluster, pe) slot showing the
// encoded word's pe_idx field, read back from the low 7 bits, without
// dumping the full 128-character binary string for every slot. The
// destination one-hot mask and the other fields are not shown.
func Bitstream(w io.Writer, bs bitstream.Bitstream) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Bitstream Slots")
	t.AppendHeader(table.Row{"Cluster", "PE", "pe_idx (decoded)"})
	for c := 0; c < doda.NumCluster; c++ {
		for pe := 0; pe < doda.PESPerCluster; pe++ {
			decoded := bs[c][pe].Field(0, 7)
			t.AppendRow(table.Row{c, pe, decoded})
		}
	}
	t.Render()
}
