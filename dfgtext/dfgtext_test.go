package dfgtext_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/doda/dfgtext"
	"github.com/sarchlab/doda/mapper"
)

const s2JSON = `{
	"inputs": ["a"],
	"output": {"id": "t"},
	"nodes": [
		{"id": "t", "op": "icmp_sge", "inputs": [
			{"type": "i1", "id": "a"},
			{"type": "i2", "value": 1}
		]}
	],
	"runtime_metadata": {"input_size_in_bytes": 24}
}`

var _ = Describe("Dump and Parse", func() {
	It("round-trips S2 byte-identically (S6)", func() {
		built, err := mapper.BuildFromBytes([]byte(s2JSON))
		Expect(err).NotTo(HaveOccurred())

		first := dfgtext.Dump(built.DFG)

		reparsed, err := dfgtext.Parse(first)
		Expect(err).NotTo(HaveOccurred())

		second := dfgtext.Dump(reparsed)

		Expect(second).To(Equal(first))
	})

	It("preserves pe_idx, op, and resolved source references", func() {
		built, err := mapper.BuildFromBytes([]byte(s2JSON))
		Expect(err).NotTo(HaveOccurred())

		text := dfgtext.Dump(built.DFG)
		reparsed, err := dfgtext.Parse(text)
		Expect(err).NotTo(HaveOccurred())

		original, ok := built.DFG.GetNode("t")
		Expect(ok).To(BeTrue())
		again, ok := reparsed.GetNode("t")
		Expect(ok).To(BeTrue())

		Expect(again.PEIndex).To(Equal(original.PEIndex))
		Expect(again.Op).To(Equal(original.Op))
		Expect(again.Inputs).To(Equal(original.Inputs))
	})

	It("tolerates extra whitespace and newlines inside an input block", func() {
		messy := "Mapper_Node(id: a (pe_idx: 0), op: ADD,\n  initial_output_used: 0, initial_output: 0,\n  inputs: [\n\n    type: i1, src_id: const (pe_index: -1), const_value: 5\n\n  ])\n"
		d, err := dfgtext.Parse(messy)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Size()).To(Equal(1))
	})
})
