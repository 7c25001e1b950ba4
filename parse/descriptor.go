// Package parse holds the glue between external collaborators and the
// core: module descriptors coming out of the netlist parser, the witness
// reader, and the connection-circuit reader. The netlist and witness
// grammars themselves belong to the front-ends; this package only consumes
// their parsed, line-oriented forms.
package parse

import (
	"github.com/svcircuit/svcircuit/circuit"
)

// SubModule names an instantiated child and the wire pairs connecting it
// to the instantiating module. Each pair joins a wire in the parent's
// local namespace to one in the child's; whether a pair is an input or an
// output connection is decided by consulting the child's interface.
type SubModule struct {
	Name        string
	Connections []circuit.WirePair
}

// Module is one parsed netlist module: its boundary, its gates, and the
// submodules it instantiates. Wire ids are local to the module.
type Module[T circuit.WireValue] struct {
	Name        string
	Inputs      []circuit.Wire
	Outputs     []circuit.Wire
	Gates       []circuit.Operation[T]
	Subcircuits []SubModule
}

// BuildCircuit turns a descriptor into a bare circuit, without resolving
// its submodule references.
func BuildCircuit[T circuit.WireValue](m Module[T]) (*circuit.Circuit[T], error) {
	c := circuit.New[T](m.Name)
	c.SetInputs(m.Inputs...)
	c.SetOutputs(m.Outputs...)
	for _, g := range m.Gates {
		if _, err := c.AddGate(g); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BuildFlattener wires a descriptor stream into a ready-to-run flattener.
// The first module is the top. Submodule connection pairs are split into
// input and output maps by looking at which side of the child's interface
// the child wire sits on; a pair naming a wire on neither side is ignored,
// matching netlists that route through unused ports.
func BuildFlattener[T circuit.WireValue](modules []Module[T]) (*circuit.Flattener[T], error) {
	if len(modules) == 0 {
		return nil, &circuit.MissingDependencyError{Dependency: "top", Parent: "descriptor stream"}
	}

	circuits := make(map[string]*circuit.Circuit[T], len(modules))
	for _, m := range modules {
		c, err := BuildCircuit(m)
		if err != nil {
			return nil, err
		}
		circuits[m.Name] = c
	}

	for _, m := range modules {
		parent := circuits[m.Name]
		for _, sub := range m.Subcircuits {
			child, ok := circuits[sub.Name]
			if !ok {
				return nil, &circuit.MissingDependencyError{Dependency: sub.Name, Parent: m.Name}
			}
			var inPairs, outPairs []circuit.WirePair
			for _, pair := range sub.Connections {
				if child.Inputs.Contains(pair.Child) {
					inPairs = append(inPairs, pair)
				}
				if child.Outputs.Contains(pair.Child) {
					outPairs = append(outPairs, pair)
				}
			}
			parent.AddSubcircuit(sub.Name, inPairs, outPairs)
		}
	}

	top := modules[0].Name
	flattener := circuit.NewFlattener(circuits[top])
	for _, m := range modules[1:] {
		if err := flattener.AddSubcircuit(m.Name, circuits[m.Name]); err != nil {
			return nil, err
		}
	}
	return flattener, nil
}
