// Package compose models the combined boolean/arithmetic gate stream: the
// StreamOp variant that wraps gates from either domain plus the
// cross-domain conversion and size-hint elements, the domain compositor
// that produces the canonical stream, and a binary codec for it.
package compose

import (
	"fmt"

	"github.com/svcircuit/svcircuit/circuit"
)

// B2AWidth is the number of boolean wires a conversion gate consumes: one
// arithmetic wire equals 64 little-endian bits.
const B2AWidth = 64

// Kind discriminates the composite stream elements.
type Kind uint8

const (
	// KindGF2 wraps a boolean-domain gate.
	KindGF2 Kind = iota
	// KindZ64 wraps an arithmetic-domain gate.
	KindZ64
	// KindB2A asserts that an arithmetic wire equals the integer whose
	// little-endian bits are the 64 boolean wires starting at a base.
	KindB2A
	// KindSizeHint declares upper bounds on the arithmetic and boolean
	// wire ids so consumers can pre-size their memory.
	KindSizeHint
)

// StreamOp is one element of a composite gate stream. Which fields are
// meaningful depends on Kind:
//
//	KindGF2:      Bool
//	KindZ64:      Arith
//	KindB2A:      A (arithmetic wire), B (boolean low wire)
//	KindSizeHint: A (arithmetic bound), B (boolean bound)
type StreamOp struct {
	Kind  Kind
	Bool  circuit.Operation[bool]
	Arith circuit.Operation[uint64]
	A, B  circuit.Wire
}

// GF2 wraps a boolean gate as a stream element.
func GF2(g circuit.Operation[bool]) StreamOp {
	return StreamOp{Kind: KindGF2, Bool: g}
}

// Z64 wraps an arithmetic gate as a stream element.
func Z64(g circuit.Operation[uint64]) StreamOp {
	return StreamOp{Kind: KindZ64, Arith: g}
}

// B2A returns a conversion gate binding arith to the 64 boolean wires
// starting at boolLow.
func B2A(arith, boolLow circuit.Wire) StreamOp {
	return StreamOp{Kind: KindB2A, A: arith, B: boolLow}
}

// SizeHint returns a stream header declaring wire-id bounds.
func SizeHint(arithBound, boolBound circuit.Wire) StreamOp {
	return StreamOp{Kind: KindSizeHint, A: arithBound, B: boolBound}
}

// Inputs appends the element's input wires to buf and returns it. A B2A
// gate reads its full 64-wire boolean block; a SizeHint reads nothing.
// Boolean and arithmetic wires share the returned slice; callers that care
// about the domain split must consult Kind.
func (op StreamOp) Inputs(buf []circuit.Wire) []circuit.Wire {
	switch op.Kind {
	case KindGF2:
		return append(buf, op.Bool.Inputs()...)
	case KindZ64:
		return append(buf, op.Arith.Inputs()...)
	case KindB2A:
		for w := op.B; w < op.B+B2AWidth; w++ {
			buf = append(buf, w)
		}
		return buf
	default:
		return buf
	}
}

// Outputs appends the element's output wires to buf and returns it.
func (op StreamOp) Outputs(buf []circuit.Wire) []circuit.Wire {
	switch op.Kind {
	case KindGF2:
		return append(buf, op.Bool.Outputs()...)
	case KindZ64:
		return append(buf, op.Arith.Outputs()...)
	case KindB2A:
		return append(buf, op.A)
	default:
		return buf
	}
}

// Translate rewrites the element's wires with the given substitutions. For
// a B2A gate the first input names the new boolean block base and the
// first output the new arithmetic wire. SizeHints translate to themselves.
func (op StreamOp) Translate(ins, outs []circuit.Wire) (StreamOp, error) {
	switch op.Kind {
	case KindGF2:
		g, err := op.Bool.Translate(ins, outs)
		if err != nil {
			return StreamOp{}, err
		}
		return GF2(g), nil
	case KindZ64:
		g, err := op.Arith.Translate(ins, outs)
		if err != nil {
			return StreamOp{}, err
		}
		return Z64(g), nil
	case KindB2A:
		if len(ins) < 1 || len(outs) != 1 {
			return StreamOp{}, fmt.Errorf("compose: cannot translate B2A with %d inputs and %d outputs", len(ins), len(outs))
		}
		return B2A(outs[0], ins[0]), nil
	case KindSizeHint:
		return op, nil
	default:
		return StreamOp{}, fmt.Errorf("compose: unknown stream element kind %d", op.Kind)
	}
}

// IsBuffer reports whether the element wraps an identity gate.
func (op StreamOp) IsBuffer() bool {
	switch op.Kind {
	case KindGF2:
		return op.Bool.IsIdentity()
	case KindZ64:
		return op.Arith.IsIdentity()
	default:
		return false
	}
}

// String names the element the way gate histograms do.
func (op StreamOp) String() string {
	switch op.Kind {
	case KindGF2:
		if op.Bool.IsIdentity() {
			return "GF2::Buffer"
		}
		return "GF2::" + op.Bool.Kind.String()
	case KindZ64:
		if op.Arith.IsIdentity() {
			return "Z64::Buffer"
		}
		return "Z64::" + op.Arith.Kind.String()
	case KindB2A:
		return "B2A"
	case KindSizeHint:
		return "SizeHint"
	default:
		return "Unknown"
	}
}

// LargestWires returns the maximum arithmetic and boolean wire ids used by
// any element of the stream. SizeHints are ignored; a B2A contributes its
// arithmetic wire and its full boolean block.
func LargestWires(stream []StreamOp) (largestArith, largestBool circuit.Wire) {
	for _, op := range stream {
		switch op.Kind {
		case KindGF2:
			for _, w := range op.Bool.Inputs() {
				largestBool = max(largestBool, w)
			}
			for _, w := range op.Bool.Outputs() {
				largestBool = max(largestBool, w)
			}
		case KindZ64:
			for _, w := range op.Arith.Inputs() {
				largestArith = max(largestArith, w)
			}
			for _, w := range op.Arith.Outputs() {
				largestArith = max(largestArith, w)
			}
		case KindB2A:
			largestArith = max(largestArith, op.A)
			largestBool = max(largestBool, op.B+B2AWidth-1)
		}
	}
	return largestArith, largestBool
}

// SmallestWires returns the minimum arithmetic and boolean wire ids used by
// any element of the stream, under the same accounting as LargestWires. A
// domain with no wires reports 0.
func SmallestWires(stream []StreamOp) (smallestArith, smallestBool circuit.Wire) {
	const unset = ^circuit.Wire(0)
	smallestArith, smallestBool = unset, unset
	for _, op := range stream {
		switch op.Kind {
		case KindGF2:
			for _, w := range op.Bool.Inputs() {
				smallestBool = min(smallestBool, w)
			}
			for _, w := range op.Bool.Outputs() {
				smallestBool = min(smallestBool, w)
			}
		case KindZ64:
			for _, w := range op.Arith.Inputs() {
				smallestArith = min(smallestArith, w)
			}
			for _, w := range op.Arith.Outputs() {
				smallestArith = min(smallestArith, w)
			}
		case KindB2A:
			smallestArith = min(smallestArith, op.A)
			smallestBool = min(smallestBool, op.B)
		}
	}
	if smallestArith == unset {
		smallestArith = 0
	}
	if smallestBool == unset {
		smallestBool = 0
	}
	return smallestArith, smallestBool
}
