// translate.go holds the two wire-rewrite primitives. Every higher-level
// transformation (prune, curry, minimize, merge) builds a substitution map
// and funnels it through TranslateGate; LocalizeGate is the instance-id
// flavor used while inlining submodules.
package circuit

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// TranslateGate returns a copy of the gate with every wire replaced by its
// entry in remap, if present. Wires in the frozen set are always kept, even
// when remap names them. A nil frozen set freezes nothing.
func TranslateGate[T WireValue](g Operation[T], remap map[Wire]Wire, frozen mapset.Set[Wire]) Operation[T] {
	translate := func(w Wire) Wire {
		if frozen != nil && frozen.Contains(w) {
			return w
		}
		if to, ok := remap[w]; ok {
			return to
		}
		return w
	}

	ins := g.Inputs()
	for i, w := range ins {
		ins[i] = translate(w)
	}
	outs := g.Outputs()
	for i, w := range outs {
		outs[i] = translate(w)
	}
	translated, err := g.Translate(ins, outs)
	if err != nil {
		// The substitutions come from the gate's own wire sets; a mismatch
		// is unreachable.
		panic(err)
	}
	return translated
}

// LocalizeGate maps every non-frozen wire on the gate into the instance
// namespace of id and returns the localized gate together with the rewrite
// table it applied (old wire -> new wire, with frozen wires mapped to
// themselves). Callers accumulate the tables into namespace-wide
// remappings.
func LocalizeGate[T WireValue](id ModId, g Operation[T], frozen mapset.Set[Wire]) (Operation[T], map[Wire]Wire) {
	table := make(map[Wire]Wire)
	record := func(w Wire) {
		if _, ok := table[w]; ok {
			return
		}
		if frozen != nil && frozen.Contains(w) {
			table[w] = w
			return
		}
		to := id.ToWire(w)
		if frozen != nil && frozen.Contains(to) {
			panic("circuit: localized wire collides with a frozen interface wire")
		}
		table[w] = to
	}
	for _, w := range g.Inputs() {
		record(w)
	}
	for _, w := range g.Outputs() {
		record(w)
	}
	return TranslateGate(g, table, nil), table
}
