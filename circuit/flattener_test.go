package circuit

import (
	"slices"
	"testing"
)

func TestFlattener_TwoLevels(t *testing.T) {
	top := New[bool]("top")
	top.SetInputs(3, 4)
	top.SetOutputs(6)
	mustAdd(t, top, Const(0, false))
	mustAdd(t, top, Const(1, true))
	mustAdd(t, top, Add[bool](2, 0, 1))
	mustAdd(t, top, Add[bool](5, 3, 4))
	top.AddSubcircuit("Inner", []WirePair{{2, 5}, {5, 6}}, []WirePair{{6, 4}})

	inner := New[bool]("Inner")
	inner.SetInputs(5, 6)
	inner.SetOutputs(4)
	mustAdd(t, inner, Mul[bool](2, 5, 6))
	mustAdd(t, inner, Add[bool](4, 3, 2))
	inner.AddSubcircuit("Inverter", []WirePair{{2, 7}}, []WirePair{{3, 9}})

	f := NewFlattener(top)
	if err := f.AddSubcircuit("Inner", inner); err != nil {
		t.Fatalf("add Inner: %v", err)
	}
	if err := f.AddSubcircuit("Inverter", inverterCircuit(t)); err != nil {
		t.Fatalf("add Inverter: %v", err)
	}

	flat, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !flat.Flat() {
		t.Fatal("flattened top must be flat")
	}

	want := []Operation[bool]{
		Add[bool](7, 3, 4),
		Const(8, false),
		AddConst(9, 8, true),
		Mul[bool](10, 9, 7),
		AddConst(11, 10, true),
		Add[bool](12, 11, 10),
		AddConst(6, 12, false),
	}
	if got := flat.TopoGates(); !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got := SortedWires(flat.Inputs); !slices.Equal(got, []Wire{3, 4}) {
		t.Fatalf("inputs = %v, want [3 4]", got)
	}
	if got := SortedWires(flat.Outputs); !slices.Equal(got, []Wire{6}) {
		t.Fatalf("outputs = %v, want [6]", got)
	}
}

func TestFlattener_DropsUndrivenGate(t *testing.T) {
	// Wire 50 has no driver; the flattener must drop the offending gate
	// with a warning instead of failing the build.
	inv := New[bool]("Inverter")
	inv.SetInputs(7)
	inv.SetOutputs(9)
	mustAdd(t, inv, AddConst(9, 7, true))
	mustAdd(t, inv, Add[bool](12, 50, 7))

	top := New[bool]("top")
	top.SetInputs(0)
	top.SetOutputs(3)
	top.AddSubcircuit("Inverter", []WirePair{{0, 7}}, []WirePair{{3, 9}})

	f := NewFlattener(top)
	if err := f.AddSubcircuit("Inverter", inv); err != nil {
		t.Fatalf("add: %v", err)
	}
	if inv.NumGates() != 1 {
		t.Fatalf("undriven gate not dropped: %d gates remain", inv.NumGates())
	}

	flat, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	want := []Operation[bool]{
		AddConst(4, 0, true),
		AddConst(3, 4, false),
	}
	if got := flat.TopoGates(); !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlattener_MissingModule(t *testing.T) {
	inner := New[bool]("Inner")
	inner.SetInputs(5)
	inner.SetOutputs(4)
	mustAdd(t, inner, AddConst(4, 5, true))
	inner.AddSubcircuit("Nowhere", []WirePair{{4, 1}}, nil)

	top := New[bool]("top")
	top.SetInputs(0)
	top.AddSubcircuit("Inner", []WirePair{{0, 5}}, []WirePair{{2, 4}})

	f := NewFlattener(top)
	if err := f.AddSubcircuit("Inner", inner); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := f.Flatten(); err == nil {
		t.Fatal("expected an error for the unregistered module")
	}
}
