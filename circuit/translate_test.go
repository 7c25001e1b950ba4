package circuit

import (
	"maps"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func TestTranslateGate_Simple(t *testing.T) {
	gate := Add[bool](3, 1, 2)
	got := TranslateGate(gate, map[Wire]Wire{1: 4, 2: 5, 3: 6}, nil)
	if want := Add[bool](6, 4, 5); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTranslateGate_ReusedIds(t *testing.T) {
	// Substitution targets overlap the source ids; each wire must be
	// rewritten exactly once.
	gate := Add[bool](3, 1, 2)
	got := TranslateGate(gate, map[Wire]Wire{1: 2, 2: 3, 3: 4}, nil)
	if want := Add[bool](4, 2, 3); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTranslateGate_Frozen(t *testing.T) {
	gate := Add[bool](3, 1, 2)
	frozen := mapset.NewThreadUnsafeSet[Wire](1)
	got := TranslateGate(gate, map[Wire]Wire{1: 4, 2: 5, 3: 6}, frozen)
	if want := Add[bool](6, 1, 5); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTranslateGate_FrozenConst(t *testing.T) {
	gate := AddConst(3, 1, true)
	frozen := mapset.NewThreadUnsafeSet[Wire](1)
	got := TranslateGate(gate, map[Wire]Wire{1: 4, 2: 5, 3: 6}, frozen)
	if want := AddConst(6, 1, true); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTranslateGate_MissingEntriesKept(t *testing.T) {
	gate := Mul[uint64](9, 7, 8)
	got := TranslateGate(gate, map[Wire]Wire{7: 1}, nil)
	if want := Mul[uint64](9, 1, 8); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLocalizeGate(t *testing.T) {
	id := NewModId(42)
	gate := Add[bool](3, 1, 2)

	got, table := LocalizeGate(id, gate, nil)
	want := Add[bool](id.ToWire(3), id.ToWire(1), id.ToWire(2))
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	wantTable := map[Wire]Wire{
		1: id.ToWire(1),
		2: id.ToWire(2),
		3: id.ToWire(3),
	}
	if !maps.Equal(table, wantTable) {
		t.Fatalf("table = %v, want %v", table, wantTable)
	}
}

func TestLocalizeGate_Frozen(t *testing.T) {
	id := NewModId(42)
	gate := Add[bool](6, 4, 5)
	frozen := mapset.NewThreadUnsafeSet[Wire](4)

	got, table := LocalizeGate(id, gate, frozen)
	want := Add[bool](id.ToWire(6), 4, id.ToWire(5))
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	wantTable := map[Wire]Wire{
		4: 4,
		5: id.ToWire(5),
		6: id.ToWire(6),
	}
	if !maps.Equal(table, wantTable) {
		t.Fatalf("table = %v, want %v", table, wantTable)
	}
}

func TestLocalizeGate_FrozenConst(t *testing.T) {
	id := NewModId(42)
	gate := AddConst(6, 4, true)
	frozen := mapset.NewThreadUnsafeSet[Wire](4)

	got, table := LocalizeGate(id, gate, frozen)
	want := AddConst(id.ToWire(6), 4, true)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	wantTable := map[Wire]Wire{
		4: 4,
		6: id.ToWire(6),
	}
	if !maps.Equal(table, wantTable) {
		t.Fatalf("table = %v, want %v", table, wantTable)
	}
}
