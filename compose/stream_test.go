package compose

import (
	"slices"
	"testing"

	"github.com/svcircuit/svcircuit/circuit"
)

func TestStreamOp_B2AIO(t *testing.T) {
	op := B2A(500, 100)

	ins := op.Inputs(nil)
	if len(ins) != B2AWidth {
		t.Fatalf("B2A reads %d wires, want %d", len(ins), B2AWidth)
	}
	for i, w := range ins {
		if w != circuit.Wire(100+i) {
			t.Fatalf("B2A input %d = %d, want %d", i, w, 100+i)
		}
	}
	if outs := op.Outputs(nil); !slices.Equal(outs, []circuit.Wire{500}) {
		t.Fatalf("B2A outputs = %v, want [500]", outs)
	}
}

func TestStreamOp_SizeHintHasNoIO(t *testing.T) {
	op := SizeHint(10, 20)
	if len(op.Inputs(nil)) != 0 || len(op.Outputs(nil)) != 0 {
		t.Fatal("SizeHint must expose no wires")
	}
}

func TestStreamOp_Translate(t *testing.T) {
	gf2 := GF2(circuit.Add[bool](3, 1, 2))
	got, err := gf2.Translate([]circuit.Wire{4, 5}, []circuit.Wire{6})
	if err != nil {
		t.Fatalf("translate gf2: %v", err)
	}
	if want := GF2(circuit.Add[bool](6, 4, 5)); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	b2a := B2A(500, 100)
	ins := b2a.Inputs(nil)
	for i := range ins {
		ins[i] += 7
	}
	got, err = b2a.Translate(ins, []circuit.Wire{900})
	if err != nil {
		t.Fatalf("translate b2a: %v", err)
	}
	if want := B2A(900, 107); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStreamOp_String(t *testing.T) {
	cases := map[string]StreamOp{
		"GF2::Add":    GF2(circuit.Add[bool](3, 1, 2)),
		"GF2::Buffer": GF2(circuit.AddConst(3, 1, false)),
		"Z64::Mul":    Z64(circuit.Mul[uint64](3, 1, 2)),
		"Z64::Buffer": Z64(circuit.MulConst(3, 1, uint64(1))),
		"B2A":         B2A(1, 2),
		"SizeHint":    SizeHint(1, 2),
	}
	for want, op := range cases {
		if got := op.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}

func TestLargestSmallestWires(t *testing.T) {
	stream := []StreamOp{
		GF2(circuit.Input[bool](4)),
		GF2(circuit.Add[bool](9, 4, 4)),
		Z64(circuit.AddConst(30, 25, uint64(1))),
		B2A(40, 6),
		SizeHint(1000, 1000), // ignored by wire accounting
	}

	la, lb := LargestWires(stream)
	if la != 40 {
		t.Fatalf("largest arith = %d, want 40", la)
	}
	if lb != 6+B2AWidth-1 {
		t.Fatalf("largest bool = %d, want %d (B2A block end)", lb, 6+B2AWidth-1)
	}

	sa, sb := SmallestWires(stream)
	if sa != 25 {
		t.Fatalf("smallest arith = %d, want 25", sa)
	}
	if sb != 4 {
		t.Fatalf("smallest bool = %d, want 4", sb)
	}
}
