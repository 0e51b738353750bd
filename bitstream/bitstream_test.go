package bitstream_test

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/doda/bitstream"
	"github.com/sarchlab/doda/diagnostics"
	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/doda"
	"github.com/sarchlab/doda/opcode"
)

var _ = Describe("Encode", func() {
	var sink *diagnostics.Sink

	BeforeEach(func() {
		sink = &diagnostics.Sink{}
	})

	It("produces a word whose low 7 bits are the node's pe_index", func() {
		d := dfg.New()
		_, _ = d.AddNode(sink, "a", opcode.ADD, false, 0)
		b, _ := d.AddNode(sink, "b", opcode.SUB, false, 0)

		w, err := bitstream.Encode(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Field(0, 7)).To(BeEquivalentTo(b.PEIndex))
	})

	It("renders a word as exactly PROG_MEM_WIDTH ascii characters", func() {
		d := dfg.New()
		a, _ := d.AddNode(sink, "a", opcode.ADD, false, 0)

		w, err := bitstream.Encode(a)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.String()).To(HaveLen(doda.ProgMemWidth))
	})

	It("never sets its own cluster's bit in the destination one-hot mask", func() {
		d := dfg.New()
		producer, _ := d.AddNode(sink, "p", opcode.ADD, false, 0)
		consumer, _ := d.AddNode(sink, "c", opcode.ADD, false, 0)
		producer.AddOutput("c")
		d.ResolveReferences(sink)

		w, err := bitstream.Encode(producer)
		Expect(err).NotTo(HaveOccurred())

		thisCluster := producer.PEIndex / doda.PESPerCluster
		oh := w.Field(uint64FieldOffsetDstOH(), doda.NumCluster)
		Expect(oh & (1 << uint(thisCluster))).To(BeZero())
		_ = consumer
	})
})

var _ = Describe("Assemble", func() {
	var sink *diagnostics.Sink

	BeforeEach(func() {
		sink = &diagnostics.Sink{}
	})

	It("fills every slot, including ones with no node, with an inert pe_idx-only word (S1)", func() {
		d := dfg.New()
		counter, _ := d.AddNode(sink, "counter", opcode.ADD, true, 0)
		_ = counter.AddSourceInput(dfg.I1, "counter")
		_ = counter.AddConstInput(dfg.I2, 1)
		counter.AddOutput("counter")

		for _, id := range []string{"continue_condition", "terminal_condition", "store_output", "terminal", "a"} {
			_, err := d.AddNode(sink, id, opcode.NIL, false, 0)
			Expect(err).NotTo(HaveOccurred())
		}

		d.ResolveReferences(sink)
		bs, err := bitstream.Assemble(d)
		Expect(err).NotTo(HaveOccurred())

		for pe := 6; pe < doda.PESPerCluster; pe++ {
			w := bs[0][pe]
			Expect(w.Field(0, 7)).To(BeEquivalentTo(pe))
			Expect(w.String()).To(HaveLen(doda.ProgMemWidth))
		}
	})

	It("places a cross-cluster consumer's one-hot bit correctly (S4)", func() {
		d := dfg.New()
		for i := 0; i < 6; i++ {
			_, err := d.AddNode(sink, filler(i), opcode.NIL, false, 0)
			Expect(err).NotTo(HaveOccurred())
		}
		producer := mustNode(d, sink, "producer")
		Expect(producer.PEIndex).To(Equal(6))

		for i := 0; i < doda.PESPerCluster-7; i++ {
			_, err := d.AddNode(sink, filler(100+i), opcode.NIL, false, 0)
			Expect(err).NotTo(HaveOccurred())
		}
		consumer := mustNode(d, sink, "consumer")
		Expect(consumer.PEIndex).To(Equal(doda.PESPerCluster))

		producer.AddOutput("consumer")
		d.ResolveReferences(sink)

		bs, err := bitstream.Assemble(d)
		Expect(err).NotTo(HaveOccurred())

		cluster := producer.PEIndex / doda.PESPerCluster
		pe := producer.PEIndex % doda.PESPerCluster
		oh := bs[cluster][pe].Field(uint64FieldOffsetDstOH(), doda.NumCluster)
		Expect(oh).To(BeEquivalentTo(0b0010))
	})

	It("rejects a DFG with more nodes than PE slots", func() {
		d := dfg.New()
		for i := 0; i < doda.TotalPEs+1; i++ {
			_, err := d.AddNode(sink, filler(i), opcode.NIL, false, 0)
			Expect(err).NotTo(HaveOccurred())
		}
		d.ResolveReferences(sink)

		_, err := bitstream.Assemble(d)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&bitstream.ErrCapacityExceeded{}))
	})
})

func mustNode(d *dfg.MapperDFG, sink *diagnostics.Sink, id string) *dfg.Node {
	n, err := d.AddNode(sink, id, opcode.NIL, false, 0)
	Expect(err).NotTo(HaveOccurred())
	return n
}

func filler(i int) string {
	return "filler_" + strconv.Itoa(i)
}

// uint64FieldOffsetDstOH mirrors the package-private dst_cluster_oh
// field offset so tests can read it back without exporting the
// layout table itself.
func uint64FieldOffsetDstOH() int {
	return 7 + 1 + 1 + doda.DataWidth + 1 + 1 + doda.DataWidth + 1 + doda.SrcIdxWidth + 1 + doda.DataWidth + doda.OpcodeWidth
}
