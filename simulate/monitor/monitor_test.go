package monitor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/doda/mapper"
	"github.com/sarchlab/doda/simulate/monitor"
)

const doublerJSON = `{
	"inputs": ["a"],
	"output": {"id": "d"},
	"nodes": [
		{"id": "d", "op": "mul", "inputs": [
			{"type": "i1", "id": "a"},
			{"type": "i2", "value": 2}
		]}
	],
	"runtime_metadata": {"input_size_in_bytes": 16}
}`

var _ = Describe("Comp", func() {
	It("replays a functional trace on an akita engine and monitor", func() {
		built, err := mapper.BuildFromBytes([]byte(doublerJSON))
		Expect(err).NotTo(HaveOccurred())

		engine := sim.NewSerialEngine()
		mon := monitoring.NewMonitor()
		mon.RegisterEngine(engine)

		c, err := monitor.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithMonitor(mon).
			Build("TestMonitor", built.DFG, []int32{1, 2, 3, 4})
		Expect(err).NotTo(HaveOccurred())

		err = engine.Run()
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Err()).NotTo(HaveOccurred())
		Expect(c.Output()).To(Equal([]int32{2, 4, 6, 8}))
	})
})
