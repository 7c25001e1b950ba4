// Package circuit implements the hierarchical netlist core: the gate model,
// the per-module circuit graph with its optimization passes, the submodule
// merger, and the dependency-ordered flattener. Circuits are parameterized
// over the wire value domain; the boolean domain carries single bits and the
// arithmetic domain carries 64-bit integers modulo 2^64.
package circuit

// Wire identifies a dataflow value in a flat 64-bit namespace. Wires 0 and 1
// are conventionally reserved for constant false/true by some exterior
// encodings; nothing in this package assumes that.
type Wire = uint64

// WireValue constrains the value domains a circuit can carry.
type WireValue interface {
	~bool | ~uint64
}

// OpKind discriminates the gate variants.
type OpKind uint8

const (
	OpInput      OpKind = iota // primary input
	OpRandom                   // verifier-sampled random value
	OpConst                    // out = c
	OpAdd                      // out = l + r
	OpSub                      // out = l - r
	OpMul                      // out = l * r
	OpAddConst                 // out = in + c
	OpSubConst                 // out = in - c
	OpMulConst                 // out = in * c
	OpAssertZero               // constraint: w = 0
)

// String returns the variant name used in gate histograms.
func (k OpKind) String() string {
	switch k {
	case OpInput:
		return "Input"
	case OpRandom:
		return "Random"
	case OpConst:
		return "Const"
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpAddConst:
		return "AddConst"
	case OpSubConst:
		return "SubConst"
	case OpMulConst:
		return "MulConst"
	case OpAssertZero:
		return "AssertZero"
	default:
		return "Unknown"
	}
}

// Operation is a single gate. Which fields are meaningful depends on Kind:
//
//	Input, Random:                Out
//	Const:                        Out, Const
//	Add, Sub, Mul:                Out, A, B
//	AddConst, SubConst, MulConst: Out, A, Const
//	AssertZero:                   A (the asserted wire)
//
// In the boolean domain Add is XOR and Mul is AND.
type Operation[T WireValue] struct {
	Kind  OpKind
	Out   Wire
	A, B  Wire
	Const T
}

// Input returns a primary-input gate for wire w.
func Input[T WireValue](w Wire) Operation[T] {
	return Operation[T]{Kind: OpInput, Out: w}
}

// Random returns a gate whose output is sampled by the verifier.
func Random[T WireValue](w Wire) Operation[T] {
	return Operation[T]{Kind: OpRandom, Out: w}
}

// Const returns a constant gate out = c.
func Const[T WireValue](out Wire, c T) Operation[T] {
	return Operation[T]{Kind: OpConst, Out: out, Const: c}
}

// Add returns out = l + r.
func Add[T WireValue](out, l, r Wire) Operation[T] {
	return Operation[T]{Kind: OpAdd, Out: out, A: l, B: r}
}

// Sub returns out = l - r.
func Sub[T WireValue](out, l, r Wire) Operation[T] {
	return Operation[T]{Kind: OpSub, Out: out, A: l, B: r}
}

// Mul returns out = l * r.
func Mul[T WireValue](out, l, r Wire) Operation[T] {
	return Operation[T]{Kind: OpMul, Out: out, A: l, B: r}
}

// AddConst returns out = in + c.
func AddConst[T WireValue](out, in Wire, c T) Operation[T] {
	return Operation[T]{Kind: OpAddConst, Out: out, A: in, Const: c}
}

// SubConst returns out = in - c.
func SubConst[T WireValue](out, in Wire, c T) Operation[T] {
	return Operation[T]{Kind: OpSubConst, Out: out, A: in, Const: c}
}

// MulConst returns out = in * c.
func MulConst[T WireValue](out, in Wire, c T) Operation[T] {
	return Operation[T]{Kind: OpMulConst, Out: out, A: in, Const: c}
}

// AssertZero returns the constraint gate w = 0.
func AssertZero[T WireValue](w Wire) Operation[T] {
	return Operation[T]{Kind: OpAssertZero, A: w}
}

// Identity returns the buffer gate dst = src, encoded as AddConst with the
// domain's additive identity. Merge uses these as splice glue between
// parent and child interface wires; Prune removes them afterwards.
func Identity[T WireValue](dst, src Wire) Operation[T] {
	return Operation[T]{Kind: OpAddConst, Out: dst, A: src}
}

// zeroValue is the additive identity of the domain (false / 0).
func zeroValue[T WireValue]() T {
	var z T
	return z
}

// oneValue is the multiplicative identity of the domain (true / 1).
func oneValue[T WireValue]() T {
	var o T
	switch p := any(&o).(type) {
	case *bool:
		*p = true
	case *uint64:
		*p = 1
	}
	return o
}

// IsIdentity reports whether the gate is a buffer: AddConst/SubConst with
// the additive identity, or MulConst with the multiplicative identity.
func (g Operation[T]) IsIdentity() bool {
	switch g.Kind {
	case OpAddConst, OpSubConst:
		return g.Const == zeroValue[T]()
	case OpMulConst:
		return g.Const == oneValue[T]()
	default:
		return false
	}
}

// Inputs returns the gate's input wire multiset, in operand order.
func (g Operation[T]) Inputs() []Wire {
	switch g.Kind {
	case OpAdd, OpSub, OpMul:
		return []Wire{g.A, g.B}
	case OpAddConst, OpSubConst, OpMulConst, OpAssertZero:
		return []Wire{g.A}
	default:
		return nil
	}
}

// Outputs returns the gate's output wire multiset.
func (g Operation[T]) Outputs() []Wire {
	if g.Kind == OpAssertZero {
		return nil
	}
	return []Wire{g.Out}
}

// Dst returns the wire this gate drives, if any.
func (g Operation[T]) Dst() (Wire, bool) {
	if g.Kind == OpAssertZero {
		return 0, false
	}
	return g.Out, true
}

// Translate returns a copy of the gate with its inputs and outputs replaced
// by the given substitutions. The substitution slices must match the gate's
// own arities.
func (g Operation[T]) Translate(ins, outs []Wire) (Operation[T], error) {
	wantIn, wantOut := len(g.Inputs()), len(g.Outputs())
	if len(ins) != wantIn || len(outs) != wantOut {
		return Operation[T]{}, &TranslationError{
			Kind: g.Kind, WantIn: wantIn, WantOut: wantOut,
			GotIn: len(ins), GotOut: len(outs),
		}
	}
	out := g
	switch g.Kind {
	case OpInput, OpRandom, OpConst:
		out.Out = outs[0]
	case OpAdd, OpSub, OpMul:
		out.Out, out.A, out.B = outs[0], ins[0], ins[1]
	case OpAddConst, OpSubConst, OpMulConst:
		out.Out, out.A = outs[0], ins[0]
	case OpAssertZero:
		out.A = ins[0]
	}
	return out, nil
}
