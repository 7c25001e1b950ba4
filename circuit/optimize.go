// optimize.go implements the per-module optimization passes: buffer
// elimination (Prune), constant folding into the *Const gate variants
// (Curry), contiguous wire renumbering (MinimizeWires), and the namespace
// shift (IncrementWires). All passes preserve the module's input and
// output wire sets untouched.
package circuit

import (
	"github.com/svcircuit/svcircuit/log"
)

// Prune removes identity (buffer) gates and rewires their readers to the
// buffer's source. Buffers that transparently carry a module input to a
// module output, or that drive a module output, are kept: boundary wires
// must not be rewritten. Returns the number of gates removed.
func (c *Circuit[T]) Prune() int {
	if !c.built {
		panic("circuit: Prune called before Build")
	}

	removed := 0
	walker := newTopoWalker(c.graph)
	for idx, ok := walker.next(); ok; idx, ok = walker.next() {
		node := c.graph.weight(idx)
		if !node.IsIdentity() {
			continue
		}
		out, _ := node.Dst()
		src := node.Inputs()[0]

		// There is at most one source (single-driver invariant), but
		// possibly many sinks.
		sources := c.graph.predecessors(idx)
		sinks := c.graph.successors(idx)

		// Readers of the buffer's output switch to reading its source
		// directly. The opposite rewrite is not safe: the source wire may
		// be shared with gates unrelated to this buffer.
		for _, sink := range sinks {
			c.graph.setWeight(sink, TranslateGate(c.graph.weight(sink), map[Wire]Wire{out: src}, nil))
		}

		if c.Outputs.Contains(out) && c.Outputs.Contains(src) {
			log.Debug("buffer maps an output to an output", "circuit", c.Name, "src", src, "out", out)
		}

		switch {
		case len(sinks) == 0 && len(sources) == 0:
			// Disconnected buffer: only keep it if it transparently maps a
			// module input to a module output.
			if !c.Outputs.Contains(out) || !c.Inputs.Contains(src) {
				c.removePruned(idx, out)
				removed++
			}
		case len(sinks) == 0:
			// Has a source but no readers: it likely drives a module
			// output. If it doesn't, redirect the source gates to write to
			// src directly and drop it.
			if !c.Outputs.Contains(out) {
				for _, source := range sources {
					c.graph.setWeight(source, TranslateGate(c.graph.weight(source), map[Wire]Wire{out: src}, nil))
				}
				c.removePruned(idx, out)
				removed++
			}
		case len(sources) == 0:
			// Reads straight from a module input; the sinks were already
			// rewritten above. A buffer driving a module output stays.
			if !c.Outputs.Contains(out) {
				c.removePruned(idx, out)
				removed++
			}
		default:
			// Source and sinks both present. Removing the buffer must not
			// rewrite boundary wires.
			if !c.Outputs.Contains(out) && !c.Inputs.Contains(src) {
				c.removePruned(idx, out)
				removed++
				for _, source := range sources {
					for _, sink := range sinks {
						c.graph.addEdge(source, sink)
					}
				}
			}
		}
	}
	return removed
}

// removePruned deletes a buffer node and releases its driver-table entry.
func (c *Circuit[T]) removePruned(idx int, out Wire) {
	if c.gateOutputs[out] == idx {
		delete(c.gateOutputs, out)
	}
	c.graph.removeNode(idx)
}

// Curry folds Const gates into their arithmetic readers: a reader
// Add/Sub/Mul with one operand equal to the constant's output becomes the
// corresponding *Const variant. Add and Mul are commutative, so the
// constant may sit in either operand slot; Sub folds only when the
// constant is its right operand, since c - x has no *Const form. A reader
// whose two operands are both the constant is left alone. A Const left
// with no readers is deleted unless it drives
// a module output. Returns the number of Const gates removed.
func (c *Circuit[T]) Curry() int {
	if !c.built {
		panic("circuit: Curry called before Build")
	}

	removed := 0
	walker := newTopoWalker(c.graph)
	for idx, ok := walker.next(); ok; idx, ok = walker.next() {
		node := c.graph.weight(idx)
		if node.Kind != OpConst {
			continue
		}
		out := node.Out
		val := node.Const

		for _, sink := range c.graph.successors(idx) {
			if !c.graph.contains(sink) {
				continue
			}
			reader := c.graph.weight(sink)
			folded, ok := foldConst(reader, out, val)
			if !ok {
				continue
			}
			c.graph.setWeight(sink, folded)
			c.graph.removeEdge(idx, sink)
		}

		if len(c.graph.successors(idx)) == 0 && !c.Outputs.Contains(out) {
			c.removePruned(idx, out)
			removed++
		}
	}
	return removed
}

// foldConst rewrites a reader of constant wire cw into its *Const variant,
// when exactly one operand slot refers to cw (for Sub, the right-hand one).
func foldConst[T WireValue](g Operation[T], cw Wire, val T) (Operation[T], bool) {
	if g.A == cw && g.B == cw {
		return g, false
	}
	switch g.Kind {
	case OpAdd:
		if g.B == cw {
			return AddConst(g.Out, g.A, val), true
		}
		if g.A == cw {
			return AddConst(g.Out, g.B, val), true
		}
	case OpSub:
		if g.B == cw {
			return SubConst(g.Out, g.A, val), true
		}
	case OpMul:
		if g.B == cw {
			return MulConst(g.Out, g.A, val), true
		}
		if g.A == cw {
			return MulConst(g.Out, g.B, val), true
		}
	}
	return g, false
}

// MinimizeWires reassigns every non-boundary wire id into the contiguous
// block immediately above the largest boundary id, walking gates in
// topological order and numbering wires in first-seen order. Downstream
// consumers can then use a flat array instead of a hash map for wire
// storage.
func (c *Circuit[T]) MinimizeWires() {
	if !c.built {
		panic("circuit: MinimizeWires called before Build")
	}

	frozen := c.Inputs.Union(c.Outputs)
	translations := make(map[Wire]Wire)

	var counter Wire
	for _, w := range frozen.ToSlice() {
		counter = max(counter, w)
	}
	counter++

	for _, idx := range c.TopoIndices() {
		g := c.graph.weight(idx)
		for _, w := range append(g.Inputs(), g.Outputs()...) {
			if _, seen := translations[w]; !seen && !frozen.Contains(w) {
				translations[w] = counter
				c.Remappings[w] = counter
				counter++
			}
		}
		c.graph.setWeight(idx, TranslateGate(g, translations, frozen))
	}
	c.rebuildDrivers()
}

// IncrementWires shifts every non-boundary wire id by delta. Used together
// with MinimizeWires to pack two flattened circuits into disjoint
// namespaces before composing them.
func (c *Circuit[T]) IncrementWires(delta Wire) {
	if !c.built {
		panic("circuit: IncrementWires called before Build")
	}

	frozen := c.Inputs.Union(c.Outputs)
	translations := make(map[Wire]Wire)

	for _, idx := range c.TopoIndices() {
		g := c.graph.weight(idx)
		for _, w := range append(g.Inputs(), g.Outputs()...) {
			if _, seen := translations[w]; !seen && !frozen.Contains(w) {
				translations[w] = w + delta
				c.Remappings[w] = w + delta
			}
		}
		c.graph.setWeight(idx, TranslateGate(g, translations, frozen))
	}
	c.rebuildDrivers()
}

// rebuildDrivers recomputes the wire->driver table after a pass rewrote
// gate wires in place. Edges are untouched; they reference node indices.
func (c *Circuit[T]) rebuildDrivers() {
	c.gateOutputs = make(map[Wire]int, len(c.gateOutputs))
	for _, idx := range c.graph.nodeIndices() {
		if out, ok := c.graph.weight(idx).Dst(); ok {
			c.gateOutputs[out] = idx
		}
	}
}
