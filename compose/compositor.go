// compositor.go owns one boolean and one arithmetic flat circuit plus the
// cross-domain connection gates between them, and serializes the three as
// a single ordered stream. The stream order is contractual; exporters and
// the composite optimizer depend on it.
package compose

import (
	"github.com/svcircuit/svcircuit/circuit"
)

// Compositor combines a flat boolean circuit and a flat arithmetic circuit
// with a list of boolean-to-arithmetic conversion gates.
type Compositor struct {
	Boolean    *circuit.Circuit[bool]
	Arithmetic *circuit.Circuit[uint64]

	connections []StreamOp
}

// NewCompositor wraps the two domain circuits. Both are expected to be
// flat and built.
func NewCompositor(boolean *circuit.Circuit[bool], arithmetic *circuit.Circuit[uint64]) *Compositor {
	return &Compositor{Boolean: boolean, Arithmetic: arithmetic}
}

// Connect appends a conversion gate binding arith to the 64 boolean wires
// starting at boolLow. Connections serialize in insertion order.
func (c *Compositor) Connect(arith, boolLow circuit.Wire) {
	c.connections = append(c.connections, B2A(arith, boolLow))
}

// Connections returns the conversion gates added so far, in order.
func (c *Compositor) Connections() []StreamOp {
	out := make([]StreamOp, len(c.connections))
	copy(out, c.connections)
	return out
}

// Challenge adds a verifier-sampled Random gate driving dst to the
// arithmetic circuit and rebuilds it immediately. Callers issuing many
// challenges should prefer Challenges, which rebuilds once.
func (c *Compositor) Challenge(dst circuit.Wire) error {
	if _, err := c.Arithmetic.AddGate(circuit.Random[uint64](dst)); err != nil {
		return err
	}
	_, err := c.Arithmetic.Build()
	return err
}

// Challenges adds one Random gate per destination and rebuilds the
// arithmetic circuit once at the end.
func (c *Compositor) Challenges(dsts ...circuit.Wire) error {
	for _, dst := range dsts {
		if _, err := c.Arithmetic.AddGate(circuit.Random[uint64](dst)); err != nil {
			return err
		}
	}
	_, err := c.Arithmetic.Build()
	return err
}

// Stats summarizes the composite's size.
type Stats struct {
	BoolGates   int
	BoolWires   circuit.Wire
	Connections int
	ArithGates  int
	ArithWires  circuit.Wire
}

// GateStats returns gate counts and wire bounds (NumWires, the largest wire
// id) for both domains plus the number of connection gates.
func (c *Compositor) GateStats() Stats {
	return Stats{
		BoolGates:   c.Boolean.NumGates(),
		BoolWires:   c.Boolean.NumWires(),
		Connections: len(c.connections),
		ArithGates:  c.Arithmetic.NumGates(),
		ArithWires:  c.Arithmetic.NumWires(),
	}
}

// Stream returns the canonical composite serialization:
//
//  1. SizeHint with both domains' wire bounds (largest id + 1)
//  2. boolean Input gates, ascending wire order
//  3. boolean gates, topological order
//  4. connection gates, insertion order
//  5. arithmetic gates, topological order
//  6. arithmetic AssertZero gates for the outputs, ascending wire order
func (c *Compositor) Stream() []StreamOp {
	boolGates := c.Boolean.TopoGates()
	arithGates := c.Arithmetic.TopoGates()

	stream := make([]StreamOp, 0, 1+c.Boolean.Inputs.Cardinality()+len(boolGates)+len(c.connections)+len(arithGates)+c.Arithmetic.Outputs.Cardinality())
	stream = append(stream, SizeHint(c.Arithmetic.NumWires()+1, c.Boolean.NumWires()+1))

	for _, w := range circuit.SortedWires(c.Boolean.Inputs) {
		stream = append(stream, GF2(circuit.Input[bool](w)))
	}
	for _, g := range boolGates {
		stream = append(stream, GF2(g))
	}
	stream = append(stream, c.connections...)
	for _, g := range arithGates {
		stream = append(stream, Z64(g))
	}
	for _, w := range circuit.SortedWires(c.Arithmetic.Outputs) {
		stream = append(stream, Z64(circuit.AssertZero[uint64](w)))
	}
	return stream
}
