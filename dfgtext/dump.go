// Package dfgtext implements the round-trippable textual projection
// of a Mapper DFG: a stable debug format, not a replacement for the
// JSON wire format.
package dfgtext

import (
	"fmt"
	"strings"

	"github.com/sarchlab/doda/dfg"
)

// Dump renders every node in d, in ascending pe_index order, in the
// form:
//
//	Mapper_Node(id: <name> (pe_idx: <N>), op: <OP>, initial_output_used: <0|1>, initial_output: <val>, inputs: [
//	    type: <i1|i2|pred>, src_id: <name> (pe_index: <N>), const_value: <val>
//	])
func Dump(d *dfg.MapperDFG) string {
	var sb strings.Builder
	nodes := d.Nodes()
	for i, n := range nodes {
		dumpNode(&sb, n)
		if i != len(nodes)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *dfg.Node) {
	initUsed := 0
	if n.InitialOutputUsed {
		initUsed = 1
	}

	fmt.Fprintf(sb, "Mapper_Node(id: %s (pe_idx: %d), op: %s, initial_output_used: %d, initial_output: %d, inputs: [\n",
		n.ID, n.PEIndex, n.Op, initUsed, n.InitialOutput)

	for _, in := range n.Inputs {
		srcID := "const"
		peIndex := -1
		constValue := int32(0)
		if in.IsConst {
			constValue = in.ConstValue
		} else {
			srcID = in.SourceID
			peIndex = in.ResolvedPE
		}
		fmt.Fprintf(sb, "    type: %s, src_id: %s (pe_index: %d), const_value: %d\n",
			in.Kind, srcID, peIndex, constValue)
	}

	sb.WriteString("])\n")
}
