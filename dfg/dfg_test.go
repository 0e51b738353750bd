package dfg_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/doda/diagnostics"
	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/opcode"
)

var _ = Describe("MapperDFG", func() {
	var (
		d    *dfg.MapperDFG
		sink *diagnostics.Sink
	)

	BeforeEach(func() {
		d = dfg.New()
		sink = &diagnostics.Sink{}
	})

	It("assigns monotonically increasing PE indices in construction order", func() {
		a, err := d.AddNode(sink, "a", opcode.ADD, false, 0)
		Expect(err).NotTo(HaveOccurred())
		b, err := d.AddNode(sink, "b", opcode.SUB, false, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.PEIndex).To(Equal(0))
		Expect(b.PEIndex).To(Equal(1))

		nodes := d.Nodes()
		Expect(nodes).To(HaveLen(2))
		Expect(nodes[0].ID).To(Equal("a"))
		Expect(nodes[1].ID).To(Equal("b"))
	})

	It("rejects a duplicate node id by default", func() {
		_, err := d.AddNode(sink, "a", opcode.ADD, false, 0)
		Expect(err).NotTo(HaveOccurred())

		_, err = d.AddNode(sink, "a", opcode.SUB, false, 0)
		Expect(err).To(MatchError(dfg.ErrDuplicateNode))
	})

	It("overwrites a duplicate node id when configured to", func() {
		d = dfg.New(dfg.WithOverwriteOnDuplicate())
		_, err := d.AddNode(sink, "a", opcode.ADD, false, 0)
		Expect(err).NotTo(HaveOccurred())

		n, err := d.AddNode(sink, "a", opcode.SUB, false, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n.Op).To(Equal(opcode.SUB))
		Expect(sink.All()).NotTo(BeEmpty())
	})

	It("resolves source and output references to PE indices", func() {
		producer, _ := d.AddNode(sink, "p", opcode.ADD, false, 0)
		consumer, _ := d.AddNode(sink, "c", opcode.MUL, false, 0)

		Expect(consumer.AddSourceInput(dfg.I1, "p")).To(Succeed())
		Expect(consumer.AddConstInput(dfg.I2, 2)).To(Succeed())
		producer.AddOutput("c")

		d.ResolveReferences(sink)

		in, ok := consumer.Input(dfg.I1)
		Expect(ok).To(BeTrue())
		Expect(in.ResolvedPE).To(Equal(producer.PEIndex))
		Expect(producer.Outputs[0].ResolvedPE).To(Equal(consumer.PEIndex))
		Expect(sink.All()).To(BeEmpty())
	})

	It("reports a diagnostic, not an error, for an unresolved reference", func() {
		consumer, _ := d.AddNode(sink, "c", opcode.STORE, false, 0)
		Expect(consumer.AddSourceInput(dfg.I2, "external_input_not_in_dfg")).To(Succeed())

		d.ResolveReferences(sink)

		in, _ := consumer.Input(dfg.I2)
		Expect(in.ResolvedPE).To(Equal(dfg.UnresolvedPE))
		Expect(sink.All()).To(HaveLen(1))
		Expect(sink.All()[0].Severity).To(Equal(diagnostics.Warning))
	})

	It("rejects a second input of the same kind", func() {
		n, _ := d.AddNode(sink, "n", opcode.ADD, false, 0)
		Expect(n.AddSourceInput(dfg.I1, "x")).To(Succeed())
		Expect(n.AddSourceInput(dfg.I1, "y")).To(HaveOccurred())
	})

	It("rejects a constant predicate", func() {
		n, _ := d.AddNode(sink, "n", opcode.LOAD, false, 0)
		Expect(n.AddConstInput(dfg.Pred, 1)).To(HaveOccurred())
	})
})
