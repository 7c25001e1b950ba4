package circuit

import "testing"

func TestModId_Deterministic(t *testing.T) {
	id := NewModId(7)
	if id.ToWire(3) != id.ToWire(3) {
		t.Fatal("ToWire must be deterministic for a fixed ModId")
	}
}

func TestModId_SeparatesWires(t *testing.T) {
	id := NewModId(7)
	seen := make(map[Wire]Wire)
	for w := Wire(0); w < 1000; w++ {
		to := id.ToWire(w)
		if prev, ok := seen[to]; ok {
			t.Fatalf("wires %d and %d collide on %d", prev, w, to)
		}
		seen[to] = w
	}
}

func TestModId_SeparatesInstances(t *testing.T) {
	a := NewModId(7)
	b := NewModId(7)
	if a.Own == b.Own {
		t.Skip("improbable Own collision; re-run")
	}
	if a.ToWire(3) == b.ToWire(3) {
		t.Fatal("distinct instances localized a wire identically")
	}
}

func TestModId_ParentMatters(t *testing.T) {
	a := ModId{Parent: 1, Own: 99}
	b := ModId{Parent: 2, Own: 99}
	if a.ToWire(3) == b.ToWire(3) {
		t.Fatal("parent id must contribute to the localization")
	}
}
