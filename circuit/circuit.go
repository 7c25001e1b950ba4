// circuit.go defines Circuit, the per-module gate graph. Gates are nodes;
// edges encode writes-to-reads dependencies and are constructed lazily by
// Build from the wire->driver side table, so gates can be inserted in any
// order.
package circuit

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/svcircuit/svcircuit/log"
)

// WirePair connects a wire in a parent module's local namespace (Parent) to
// a wire in an instantiated child's local namespace (Child).
type WirePair struct {
	Parent Wire
	Child  Wire
}

// SubCircuitDesc records an instantiation of a module from inside another
// module: which module, how its interface wires connect to the parent's,
// and the instance id used to localize its wires during merge.
type SubCircuitDesc struct {
	Name    string
	Inputs  []WirePair
	Outputs []WirePair
	Id      ModId
}

// Circuit is a named module: a directed graph of gates plus the module
// boundary (input and output wire sets) and any pending subcircuit
// instantiations. At most one gate drives each wire.
type Circuit[T WireValue] struct {
	Name        string
	Subcircuits []SubCircuitDesc
	Inputs      mapset.Set[Wire]
	Outputs     mapset.Set[Wire]
	// Remappings accumulates the wire renames applied during merges and
	// minimization, local wire -> current-namespace wire.
	Remappings map[Wire]Wire
	Id         ModId

	graph *digraph[Operation[T]]
	// gateOutputs maps each driven wire to the node index that drives it.
	gateOutputs map[Wire]int
	// subcircuitOutputs holds wires that a pending subcircuit will drive.
	subcircuitOutputs mapset.Set[Wire]
	built             bool
	flat              bool
}

// New creates an empty flat circuit with a fresh top-level instance id.
func New[T WireValue](name string) *Circuit[T] {
	return &Circuit[T]{
		Name:              name,
		Inputs:            mapset.NewThreadUnsafeSet[Wire](),
		Outputs:           mapset.NewThreadUnsafeSet[Wire](),
		Remappings:        make(map[Wire]Wire),
		Id:                NewModId(0),
		graph:             newDigraph[Operation[T]](),
		gateOutputs:       make(map[Wire]int),
		subcircuitOutputs: mapset.NewThreadUnsafeSet[Wire](),
		flat:              true,
	}
}

// SetInputs replaces the module's input wire set.
func (c *Circuit[T]) SetInputs(wires ...Wire) {
	c.Inputs = mapset.NewThreadUnsafeSet[Wire](wires...)
}

// SetOutputs replaces the module's output wire set.
func (c *Circuit[T]) SetOutputs(wires ...Wire) {
	c.Outputs = mapset.NewThreadUnsafeSet[Wire](wires...)
}

// Built reports whether graph edges are consistent with the driver table.
func (c *Circuit[T]) Built() bool { return c.built }

// Flat reports whether the circuit has no pending subcircuit instances.
func (c *Circuit[T]) Flat() bool { return c.flat }

// AddGate appends a gate and records its output wire driver. Fails with
// DriveConflictError if the output wire is already claimed by another
// gate, a pending subcircuit output, or a module input. Adding a gate
// invalidates Build.
func (c *Circuit[T]) AddGate(g Operation[T]) (int, error) {
	c.built = false

	if out, ok := g.Dst(); ok {
		if _, claimed := c.gateOutputs[out]; claimed || c.subcircuitOutputs.Contains(out) || c.Inputs.Contains(out) {
			return 0, &DriveConflictError{Wire: out}
		}
		idx := c.graph.addNode(g)
		c.gateOutputs[out] = idx
		return idx, nil
	}
	return c.graph.addNode(g), nil
}

// AddSubcircuit records the instantiation of a child module. The pairs map
// parent-namespace wires to child-namespace wires; the child's body is
// spliced in later by Merge.
func (c *Circuit[T]) AddSubcircuit(name string, inputs, outputs []WirePair) {
	c.flat = false
	for _, p := range outputs {
		c.subcircuitOutputs.Add(p.Parent)
	}
	c.Subcircuits = append(c.Subcircuits, SubCircuitDesc{
		Name:    name,
		Inputs:  inputs,
		Outputs: outputs,
		Id:      NewModId(c.Id.Own),
	})
}

// Build creates the pending writes-to-reads edges. For every gate input
// that is neither a module input nor a pending subcircuit output, the
// driver is looked up and an edge added if absent. Returns the number of
// edges added. Idempotent: a second Build adds nothing. Fails with
// UndrivenGateError if some gate input has no driver at all.
func (c *Circuit[T]) Build() (int, error) {
	if c.built {
		return 0, nil
	}
	edgesAdded := 0
	for _, idx := range c.graph.nodeIndices() {
		for _, input := range c.graph.weight(idx).Inputs() {
			driver, ok := c.gateOutputs[input]
			if !ok {
				if c.Inputs.Contains(input) || c.subcircuitOutputs.Contains(input) {
					continue
				}
				return edgesAdded, &UndrivenGateError{Parent: c.Name, Gate: idx, Wire: input}
			}
			if !c.graph.containsEdge(driver, idx) {
				c.graph.addEdge(driver, idx)
				edgesAdded++
			}
		}
	}
	c.built = true
	return edgesAdded, nil
}

// dropGate removes a gate and its driver-table entry. Used by the
// flattener to discard gates with undriven inputs.
func (c *Circuit[T]) dropGate(idx int) {
	if !c.graph.contains(idx) {
		return
	}
	if out, ok := c.graph.weight(idx).Dst(); ok {
		delete(c.gateOutputs, out)
	}
	c.graph.removeNode(idx)
}

// TopoIndices returns a topological ordering of the gate node indices.
// Requires Build; panics on a combinational cycle.
func (c *Circuit[T]) TopoIndices() []int {
	if !c.built {
		panic("circuit: TopoIndices called before Build")
	}
	return c.graph.topoIndices()
}

// TopoGates returns the gates in topological order.
func (c *Circuit[T]) TopoGates() []Operation[T] {
	indices := c.TopoIndices()
	gates := make([]Operation[T], len(indices))
	for i, idx := range indices {
		gates[i] = c.graph.weight(idx)
	}
	return gates
}

// Stream returns the canonical serialization order for a flat circuit in
// isolation: sorted Input gates for every module input, the gates in
// topological order, then sorted AssertZero gates for every module output.
// Exporters depend on this order.
func (c *Circuit[T]) Stream() []Operation[T] {
	gates := make([]Operation[T], 0, c.Inputs.Cardinality()+c.NumGates()+c.Outputs.Cardinality())
	for _, w := range SortedWires(c.Inputs) {
		gates = append(gates, Input[T](w))
	}
	gates = append(gates, c.TopoGates()...)
	for _, w := range SortedWires(c.Outputs) {
		gates = append(gates, AssertZero[T](w))
	}
	return gates
}

// Gate returns the gate at a node index.
func (c *Circuit[T]) Gate(idx int) (Operation[T], bool) {
	if !c.graph.contains(idx) {
		return Operation[T]{}, false
	}
	return c.graph.weight(idx), true
}

// NumGates returns the number of gates in the circuit.
func (c *Circuit[T]) NumGates() int { return c.graph.nodeCount }

// NumEdges returns the number of writes-to-reads edges.
func (c *Circuit[T]) NumEdges() int { return c.graph.edgeCount }

// NumWires returns the largest wire id appearing on any input, gate, or
// output. This is a pre-allocation bound, not a cardinality: optimization
// passes may leave unused wire slots below it.
func (c *Circuit[T]) NumWires() Wire {
	var maxWire Wire
	for _, w := range c.Inputs.ToSlice() {
		maxWire = max(maxWire, w)
	}
	for _, idx := range c.graph.nodeIndices() {
		g := c.graph.weight(idx)
		for _, w := range g.Inputs() {
			maxWire = max(maxWire, w)
		}
		for _, w := range g.Outputs() {
			maxWire = max(maxWire, w)
		}
	}
	for _, w := range c.Outputs.ToSlice() {
		maxWire = max(maxWire, w)
	}
	estimate := Wire(c.graph.edgeCount + c.Inputs.Cardinality() + c.Outputs.Cardinality())
	if estimate != maxWire {
		log.Debug("wire bound differs from edge estimate", "circuit", c.Name, "estimate", estimate, "max_wire", maxWire)
	}
	return maxWire
}

// GateCount returns a histogram of gate variant names. Does not require
// Build; insertion order is enough for counting.
func (c *Circuit[T]) GateCount() map[string]int {
	counts := make(map[string]int)
	for _, idx := range c.graph.nodeIndices() {
		counts[c.graph.weight(idx).Kind.String()]++
	}
	return counts
}

// SortedWires returns the set's members in ascending order.
func SortedWires(s mapset.Set[Wire]) []Wire {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
