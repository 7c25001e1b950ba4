// merge.go implements the per-module inlining step: given a library of
// already-flat children, Merge produces a flat copy of the receiver with
// every subcircuit instance replaced by its localized body and the
// interface wires spliced together.
package circuit

import (
	"slices"

	"github.com/svcircuit/svcircuit/log"
)

// splice connects an upstream wire to a downstream wire with a buffer
// gate. Splicing with buffers instead of rewriting the connected gates
// keeps merge local: the upstream wire may be shared with unrelated
// readers, and Prune removes the buffers uniformly afterwards.
func (c *Circuit[T]) splice(parent, child Wire) error {
	_, err := c.AddGate(Identity[T](child, parent))
	return err
}

// Merge inlines every subcircuit referenced by the receiver, resolving
// names against library, and returns the resulting flat circuit. The
// receiver must be built and every referenced child must itself be flat.
// The merged result is built, pruned, and curried before returning.
func (c *Circuit[T]) Merge(library map[string]*Circuit[T]) (*Circuit[T], error) {
	merged := New[T](c.Name)
	merged.Inputs = c.Inputs.Clone()
	merged.Outputs = c.Outputs.Clone()
	merged.Id = c.Id

	io := merged.Inputs.Union(merged.Outputs)

	// Copy the receiver's own gates, localized into the merged namespace
	// with the module boundary frozen.
	for _, idx := range c.graph.nodeIndices() {
		localized, remap := LocalizeGate(merged.Id, c.graph.weight(idx), io)
		for from, to := range remap {
			merged.Remappings[from] = to
		}
		if _, err := merged.AddGate(localized); err != nil {
			return nil, err
		}
	}

	if len(c.Subcircuits) > 0 {
		counts := make(map[string]int)
		for _, desc := range c.Subcircuits {
			counts[desc.Name]++
		}
		for name, n := range counts {
			log.Debug("merging subcircuits", "parent", c.Name, "child", name, "instances", n)
		}
	}

	for _, desc := range c.Subcircuits {
		other, ok := library[desc.Name]
		if !ok {
			return nil, &MissingDependencyError{Dependency: desc.Name, Parent: c.Name}
		}
		// Children must already be flat; the flattener's dependency order
		// guarantees it.
		if !other.flat {
			return nil, &NonTopoError{}
		}

		// Localize the child's gates into this instance's namespace.
		// Reverse topological order mirrors the splice direction: outputs
		// first, so the driver table fills bottom-up.
		otherLocalizations := make(map[Wire]Wire)
		indices := other.TopoIndices()
		slices.Reverse(indices)
		for _, gateIdx := range indices {
			localized, remap := LocalizeGate(desc.Id, other.graph.weight(gateIdx), nil)
			for from, to := range remap {
				otherLocalizations[from] = to
			}
			if _, err := merged.AddGate(localized); err != nil {
				return nil, err
			}
		}

		type splicePair struct{ from, to Wire }
		var splices []splicePair

		// Connect parent wires to the child's input wires. Both sides of
		// each pair are in their module-local namespaces and must be
		// resolved to the localized wires actually on the gates now.
		for _, pair := range desc.Inputs {
			// An unremapped parent wire is an IO port with no gates on it;
			// keep it as-is to preserve the parent's interface.
			parent := pair.Parent
			if to, ok := merged.Remappings[pair.Parent]; ok {
				parent = to
			}

			if !other.Inputs.Contains(pair.Child) {
				return nil, &EncapsulationViolationError{Dependency: desc.Name, Parent: c.Name, Wire: pair.Child}
			}

			// A child input no gate ever reads was never localized.
			// Circuits routinely ignore some of their declared inputs, so
			// skip the connection silently.
			child, ok := otherLocalizations[pair.Child]
			if !ok {
				continue
			}
			splices = append(splices, splicePair{from: parent, to: child})
		}

		// Connect the child's output wires back to parent wires.
		for _, pair := range desc.Outputs {
			parent := pair.Parent
			if to, ok := merged.Remappings[pair.Parent]; ok {
				parent = to
			}

			if !other.Outputs.Contains(pair.Child) {
				return nil, &EncapsulationViolationError{Dependency: desc.Name, Parent: c.Name, Wire: pair.Child}
			}

			// An undriven child output is fatal: downstream logic may read
			// the parent wire. Report every missing output at once.
			child, ok := otherLocalizations[pair.Child]
			if !ok {
				var missing []Wire
				for _, w := range SortedWires(other.Outputs) {
					if _, driven := otherLocalizations[w]; !driven {
						missing = append(missing, w)
					}
				}
				return nil, &UndrivenOutputError{Name: desc.Name, Wires: missing}
			}
			splices = append(splices, splicePair{from: child, to: parent})
		}

		for _, s := range splices {
			if err := merged.splice(s.from, s.to); err != nil {
				return nil, err
			}
		}
	}

	if _, err := merged.Build(); err != nil {
		return nil, err
	}
	pruned := merged.Prune()
	curried := merged.Curry()
	log.Debug("merge complete", "circuit", merged.Name, "buffers_pruned", pruned, "constants_curried", curried)

	return merged, nil
}
