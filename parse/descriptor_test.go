package parse

import (
	"errors"
	"slices"
	"testing"

	"github.com/svcircuit/svcircuit/circuit"
)

// twoLevelModules is the descriptor form of the two-level hierarchy: top
// instantiates Inner, which instantiates Inverter.
func twoLevelModules() []Module[bool] {
	return []Module[bool]{
		{
			Name:    "top",
			Inputs:  []circuit.Wire{3, 4},
			Outputs: []circuit.Wire{6},
			Gates: []circuit.Operation[bool]{
				circuit.Const(0, false),
				circuit.Const(1, true),
				circuit.Add[bool](2, 0, 1),
				circuit.Add[bool](5, 3, 4),
			},
			Subcircuits: []SubModule{{
				Name:        "Inner",
				Connections: []circuit.WirePair{{Parent: 2, Child: 5}, {Parent: 5, Child: 6}, {Parent: 6, Child: 4}},
			}},
		},
		{
			Name:    "Inner",
			Inputs:  []circuit.Wire{5, 6},
			Outputs: []circuit.Wire{4},
			Gates: []circuit.Operation[bool]{
				circuit.Mul[bool](2, 5, 6),
				circuit.Add[bool](4, 3, 2),
			},
			Subcircuits: []SubModule{{
				Name:        "Inverter",
				Connections: []circuit.WirePair{{Parent: 2, Child: 7}, {Parent: 3, Child: 9}},
			}},
		},
		{
			Name:    "Inverter",
			Inputs:  []circuit.Wire{7},
			Outputs: []circuit.Wire{9},
			Gates: []circuit.Operation[bool]{
				circuit.AddConst(9, 7, true),
			},
		},
	}
}

func TestBuildCircuit(t *testing.T) {
	c, err := BuildCircuit(twoLevelModules()[2])
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if c.Name != "Inverter" || c.NumGates() != 1 {
		t.Fatalf("unexpected circuit: %s with %d gates", c.Name, c.NumGates())
	}
	if got := circuit.SortedWires(c.Inputs); !slices.Equal(got, []circuit.Wire{7}) {
		t.Fatalf("inputs = %v", got)
	}
}

func TestBuildFlattener_EndToEnd(t *testing.T) {
	f, err := BuildFlattener(twoLevelModules())
	if err != nil {
		t.Fatalf("build flattener: %v", err)
	}

	flat, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	want := []circuit.Operation[bool]{
		circuit.Add[bool](7, 3, 4),
		circuit.Const(8, false),
		circuit.AddConst(9, 8, true),
		circuit.Mul[bool](10, 9, 7),
		circuit.AddConst(11, 10, true),
		circuit.Add[bool](12, 11, 10),
		circuit.AddConst(6, 12, false),
	}
	if got := flat.TopoGates(); !slices.Equal(got, want) {
		t.Fatalf("got %v,\nwant %v", got, want)
	}
}

func TestBuildFlattener_MissingChildModel(t *testing.T) {
	mods := []Module[bool]{
		{
			Name:   "top",
			Inputs: []circuit.Wire{0},
			Subcircuits: []SubModule{{
				Name:        "Ghost",
				Connections: []circuit.WirePair{{Parent: 0, Child: 1}},
			}},
		},
	}
	_, err := BuildFlattener(mods)
	var missing *circuit.MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingDependencyError", err)
	}
}

func TestBuildFlattener_Empty(t *testing.T) {
	if _, err := BuildFlattener[bool](nil); err == nil {
		t.Fatal("expected an error for an empty descriptor stream")
	}
}

func TestBuildCircuit_DriveConflict(t *testing.T) {
	m := Module[bool]{
		Name: "conflict",
		Gates: []circuit.Operation[bool]{
			circuit.Const(1, true),
			circuit.Const(1, false),
		},
	}
	_, err := BuildCircuit(m)
	var conflict *circuit.DriveConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %v, want DriveConflictError", err)
	}
}
