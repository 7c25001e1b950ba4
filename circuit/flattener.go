// flattener.go drives whole-hierarchy flattening: it keeps the library of
// named modules, a dependency graph over their names, and replaces each
// module with its flattened form in reverse-topological (leaves first)
// order before merging everything into the top module.
package circuit

import (
	"errors"
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/svcircuit/svcircuit/log"
)

// Flattener owns a top-level circuit and its (transitive) subcircuits and
// produces a flat representation of the top.
type Flattener[T WireValue] struct {
	Top *Circuit[T]

	subcircuits map[string]*Circuit[T]
	graph       *digraph[string]
	// requiredBy maps a child module name to the names of modules that
	// instantiate it.
	requiredBy map[string]mapset.Set[string]
	nameMap    map[string]int
	built      bool
	logger     *log.Logger
}

// NewFlattener creates a flattener for the given top-level circuit.
func NewFlattener[T WireValue](top *Circuit[T]) *Flattener[T] {
	return &Flattener[T]{
		Top:         top,
		subcircuits: make(map[string]*Circuit[T]),
		graph:       newDigraph[string](),
		requiredBy:  make(map[string]mapset.Set[string]),
		nameMap:     make(map[string]int),
		logger:      log.Default().Module("flatten"),
	}
}

// AddSubcircuit registers a module under the given name and eagerly builds
// it. A gate with an undriven input is dropped with a warning, trusting
// that its output is unreferenced downstream; production netlists
// routinely contain such combinationally-dead logic. Any other build
// failure is fatal and returned as-is.
func (f *Flattener[T]) AddSubcircuit(name string, c *Circuit[T]) error {
	f.built = false

	for _, sub := range c.Subcircuits {
		set, ok := f.requiredBy[sub.Name]
		if !ok {
			set = mapset.NewThreadUnsafeSet[string]()
			f.requiredBy[sub.Name] = set
		}
		set.Add(name)
	}

	for !c.built {
		_, err := c.Build()
		if err == nil {
			break
		}
		var undriven *UndrivenGateError
		if !errors.As(err, &undriven) {
			return err
		}
		f.logger.Warn("dropping gate with an undriven input, trusting its output is unused",
			"circuit", undriven.Parent, "gate", undriven.Gate, "wire", undriven.Wire)
		c.dropGate(undriven.Gate)
	}

	f.subcircuits[name] = c
	f.nameMap[name] = f.graph.addNode(name)
	return nil
}

// build adds the child-to-parent edges implied by the recorded
// requirements, so the module names can be ordered topologically.
func (f *Flattener[T]) build() error {
	for _, childName := range slices.Sorted(maps.Keys(f.requiredBy)) {
		childId, ok := f.nameMap[childName]
		if !ok {
			parents := f.requiredBy[childName].ToSlice()
			slices.Sort(parents)
			return &MissingDependencyError{Dependency: childName, Parent: parents[0]}
		}
		parents := f.requiredBy[childName].ToSlice()
		slices.Sort(parents)
		for _, parentName := range parents {
			f.graph.addEdge(childId, f.nameMap[parentName])
		}
	}
	f.built = true
	return nil
}

// Flatten produces a flat representation of Top: each non-flat module is
// replaced by its merge against the remaining library, leaves first; the
// top is then merged and its wire ids minimized.
func (f *Flattener[T]) Flatten() (*Circuit[T], error) {
	if !f.built {
		if err := f.build(); err != nil {
			return nil, err
		}
	}

	ordering := make([]string, 0, len(f.subcircuits))
	for _, idx := range f.graph.topoIndices() {
		ordering = append(ordering, f.graph.weight(idx))
	}

	for _, name := range ordering {
		sub := f.subcircuits[name]
		if sub.flat {
			continue
		}
		f.logger.Info("flattening module", "name", name)
		delete(f.subcircuits, name)
		merged, err := sub.Merge(f.subcircuits)
		if err != nil {
			return nil, err
		}
		f.subcircuits[name] = merged
	}

	f.logger.Info("performing final flattening", "top", f.Top.Name)
	for _, name := range slices.Sorted(maps.Keys(f.subcircuits)) {
		sub := f.subcircuits[name]
		f.logger.Debug("library module ready", "name", name, "gates", sub.NumGates(), "edges", sub.NumEdges())
	}

	out, err := f.Top.Merge(f.subcircuits)
	if err != nil {
		return nil, err
	}

	// Shrink the wires into the smallest contiguous block so downstream
	// provers can keep wire storage in a flat array.
	f.logger.Debug("minimizing wire indices", "top", out.Name)
	out.MinimizeWires()
	return out, nil
}
