package mapper_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gomock "github.com/golang/mock/gomock"

	"github.com/sarchlab/doda/dfg"
	"github.com/sarchlab/doda/doda"
	"github.com/sarchlab/doda/mapper"
)

const thresholdJSON = `{
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

var _ = Describe("Build", func() {
	It("assigns PE indices and resolves references for the threshold scenario (S2)", func() {
		res, err := mapper.BuildFromBytes([]byte(thresholdJSON))
		Expect(err).NotTo(HaveOccurred())

		a, ok := res.DFG.GetNode("a")
		Expect(ok).To(BeTrue())
		Expect(a.PEIndex).To(Equal(5))

		t, ok := res.DFG.GetNode("t")
		Expect(ok).To(BeTrue())
		Expect(t.PEIndex).To(Equal(6))

		storeOutput, ok := res.DFG.GetNode("store_output")
		Expect(ok).To(BeTrue())
		i2, ok := storeOutput.Input(dfg.I2)
		Expect(ok).To(BeTrue())
		Expect(i2.ResolvedPE).To(Equal(6))

		// t's only consumer (store_output) sits in the same cluster, so
		// its destination one-hot mask must come out to 0.
		Expect(t.Outputs).To(HaveLen(1))
		Expect(t.Outputs[0].ResolvedPE / doda.PESPerCluster).To(Equal(t.PEIndex / doda.PESPerCluster))
	})

	It("rejects an unsupported opcode by name (S5)", func() {
		const badJSON = `{
			"inputs": ["a"],
			"output": {"id": "x"},
			"nodes": [
				{"id": "x", "op": "fadd", "inputs": [
					{"type": "i1", "id": "a"},
					{"type": "i2", "value": 1}
				]}
			],
			"runtime_metadata": {"input_size_in_bytes": 24}
		}`

		_, err := mapper.BuildFromBytes([]byte(badJSON))
		Expect(err).To(HaveOccurred())

		var ce *mapper.CompileError
		Expect(err).To(BeAssignableToTypeOf(ce))
		ce = err.(*mapper.CompileError)
		Expect(ce.Kind).To(Equal(mapper.UnsupportedOpcode))
		Expect(ce.NodeID).To(Equal("x"))
	})

	It("reports a SchemaError on malformed JSON", func() {
		_, err := mapper.BuildFromBytes([]byte(`{not valid json`))
		Expect(err).To(HaveOccurred())

		ce, ok := err.(*mapper.CompileError)
		Expect(ok).To(BeTrue())
		Expect(ce.Kind).To(Equal(mapper.SchemaError))
	})

	It("reports CapacityExceeded once the DFG outgrows the PE array", func() {
		var nodes []string
		for i := 0; i < doda.TotalPEs; i++ {
			nodes = append(nodes, fmt.Sprintf(
				`{"id": "k%d", "op": "add", "inputs": [{"type": "i1", "id": "a"}, {"type": "i2", "value": %d}]}`,
				i, i))
		}
		doc := fmt.Sprintf(`{
			"inputs": ["a"],
			"output": {"id": "k0"},
			"nodes": [%s],
			"runtime_metadata": {"input_size_in_bytes": 24}
		}`, strings.Join(nodes, ","))

		_, err := mapper.BuildFromBytes([]byte(doc))
		Expect(err).To(HaveOccurred())

		ce, ok := err.(*mapper.CompileError)
		Expect(ok).To(BeTrue())
		Expect(ce.Kind).To(Equal(mapper.CapacityExceeded))
	})

	It("flags a genuinely unresolved output reference with a diagnostic", func() {
		const unresolvedJSON = `{
			"inputs": ["a"],
			"output": {"id": "nonexistent"},
			"nodes": [],
			"runtime_metadata": {"input_size_in_bytes": 16}
		}`

		res, err := mapper.BuildFromBytes([]byte(unresolvedJSON))
		Expect(err).NotTo(HaveOccurred())

		storeOutput, ok := res.DFG.GetNode("store_output")
		Expect(ok).To(BeTrue())
		i2, ok := storeOutput.Input(dfg.I2)
		Expect(ok).To(BeTrue())
		Expect(i2.ResolvedPE).To(Equal(dfg.UnresolvedPE))

		found := false
		for _, d := range res.Diagnostics {
			if strings.Contains(d.Message, "nonexistent") {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("surfaces a JSONSource load failure as a SchemaError", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		src := NewMockJSONSource(ctrl)
		src.EXPECT().Load("missing.json").Return(nil, fmt.Errorf("no such file"))

		_, err := mapper.Build("missing.json", mapper.WithJSONSource(src))
		Expect(err).To(HaveOccurred())

		ce, ok := err.(*mapper.CompileError)
		Expect(ok).To(BeTrue())
		Expect(ce.Kind).To(Equal(mapper.SchemaError))
	})
})
