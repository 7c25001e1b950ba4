// stats.go computes summary statistics over composite streams, mirroring
// what the circuit-level GateCount reports per module.
package optimize

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/svcircuit/svcircuit/circuit"
	"github.com/svcircuit/svcircuit/compose"
)

// GateHistogram counts stream elements by their display name, e.g.
// "GF2::Add", "Z64::Mul", "GF2::Buffer", "B2A", "SizeHint".
func GateHistogram(stream []compose.StreamOp) map[string]int {
	counts := make(map[string]int)
	for _, op := range stream {
		counts[op.String()]++
	}
	return counts
}

// WireStats returns the number of distinct boolean and arithmetic wires
// referenced by the stream's gates. Connection gates and size hints are
// not counted; this mirrors the per-domain accounting exporters use.
func WireStats(stream []compose.StreamOp) (boolWires, arithWires int) {
	boolSet := mapset.NewThreadUnsafeSet[circuit.Wire]()
	arithSet := mapset.NewThreadUnsafeSet[circuit.Wire]()
	for _, op := range stream {
		switch op.Kind {
		case compose.KindGF2:
			for _, w := range op.Bool.Inputs() {
				boolSet.Add(w)
			}
			for _, w := range op.Bool.Outputs() {
				boolSet.Add(w)
			}
		case compose.KindZ64:
			for _, w := range op.Arith.Inputs() {
				arithSet.Add(w)
			}
			for _, w := range op.Arith.Outputs() {
				arithSet.Add(w)
			}
		}
	}
	return boolSet.Cardinality(), arithSet.Cardinality()
}
