// Package optimize implements the whole-stream passes that run after
// composition: wire-namespace combination and isolation between the two
// domains, dead-code elimination, register aliasing, and size-hint
// insertion. Each pass consumes and produces a composite gate stream; the
// relative order of the surviving elements is preserved.
package optimize

import (
	"github.com/svcircuit/svcircuit/circuit"
	"github.com/svcircuit/svcircuit/compose"
)

// partition splits a stream into its boolean, connection, and arithmetic
// portions, discarding any size hints.
func partition(stream []compose.StreamOp) (boolPart, conns, arithPart []compose.StreamOp) {
	for _, op := range stream {
		switch op.Kind {
		case compose.KindGF2:
			boolPart = append(boolPart, op)
		case compose.KindB2A:
			conns = append(conns, op)
		case compose.KindZ64:
			arithPart = append(arithPart, op)
		}
	}
	return boolPart, conns, arithPart
}

// shiftOp rewrites an element's wires by applying inShift to every input
// and outShift to every output. Underflow-free for the subtracting callers as
// long as the shift never exceeds the smallest wire, which the callers
// guarantee.
func shiftOp(op compose.StreamOp, inShift, outShift func(circuit.Wire) circuit.Wire) compose.StreamOp {
	ins := op.Inputs(nil)
	for i, w := range ins {
		ins[i] = inShift(w)
	}
	outs := op.Outputs(nil)
	for i, w := range outs {
		outs[i] = outShift(w)
	}
	shifted, err := op.Translate(ins, outs)
	if err != nil {
		// The substitutions come from the element's own wire sets; a
		// mismatch is unreachable.
		panic(err)
	}
	return shifted
}

// CombineArithmeticNamespace moves the arithmetic wires above the boolean
// block so the two domains occupy disjoint id ranges: the boolean portion
// is unchanged, connection gates have their arithmetic-side outputs
// incremented by largest_bool+1, and arithmetic gates are incremented on
// both sides. The unified-namespace passes (dead code, register aliasing)
// require this.
func CombineArithmeticNamespace(stream []compose.StreamOp) []compose.StreamOp {
	boolPart, conns, arithPart := partition(stream)

	_, largestBool := compose.LargestWires(boolPart)
	shift := largestBool + 1
	keep := func(w circuit.Wire) circuit.Wire { return w }
	up := func(w circuit.Wire) circuit.Wire { return w + shift }

	out := make([]compose.StreamOp, 0, len(boolPart)+len(conns)+len(arithPart))
	out = append(out, boolPart...)
	for _, op := range conns {
		out = append(out, shiftOp(op, keep, up))
	}
	for _, op := range arithPart {
		out = append(out, shiftOp(op, up, up))
	}
	return out
}

// IsolateArithmeticWires is the mirror direction: it shifts the arithmetic
// wires down so that the smallest of them becomes 2, leaving ids 0 and 1
// free for the constant false/true wires exterior encodings reserve. The
// smallest arithmetic id is taken over the arithmetic gates and the
// connection-gate outputs; the boolean block is not consulted, so the two
// domains' id ranges may overlap afterwards. A block whose smallest id is
// already 2 or less is left in place.
func IsolateArithmeticWires(stream []compose.StreamOp) []compose.StreamOp {
	boolPart, conns, arithPart := partition(stream)

	smallestArith, _ := compose.SmallestWires(arithPart)
	if len(arithPart) == 0 {
		smallestArith = ^circuit.Wire(0)
	}
	for _, op := range conns {
		smallestArith = min(smallestArith, op.A)
	}
	var delta circuit.Wire
	if smallestArith != ^circuit.Wire(0) && smallestArith > 2 {
		delta = smallestArith - 2
	}

	keep := func(w circuit.Wire) circuit.Wire { return w }
	down := func(w circuit.Wire) circuit.Wire { return w - delta }

	out := make([]compose.StreamOp, 0, len(boolPart)+len(conns)+len(arithPart))
	out = append(out, boolPart...)
	for _, op := range conns {
		out = append(out, shiftOp(op, keep, down))
	}
	for _, op := range arithPart {
		out = append(out, shiftOp(op, down, down))
	}
	return out
}

// InsertSizeHint prepends a SizeHint declaring both domains' wire bounds
// (largest id + 1).
func InsertSizeHint(stream []compose.StreamOp) []compose.StreamOp {
	largestArith, largestBool := compose.LargestWires(stream)
	out := make([]compose.StreamOp, 0, len(stream)+1)
	out = append(out, compose.SizeHint(largestArith+1, largestBool+1))
	return append(out, stream...)
}
