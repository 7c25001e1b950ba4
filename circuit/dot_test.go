package circuit

import (
	"strings"
	"testing"
)

func TestWriteDot(t *testing.T) {
	c := New[bool]("dotted")
	c.SetInputs(0, 1)
	mustAdd(t, c, Mul[bool](2, 0, 1))
	mustAdd(t, c, AddConst(3, 2, true))
	mustBuild(t, c)

	var sb strings.Builder
	if err := c.WriteDot(&sb); err != nil {
		t.Fatalf("WriteDot: %v", err)
	}
	out := sb.String()

	for _, want := range []string{"digraph", "Mul(2, 0, 1)", "AddConst(3, 2, true)", "->"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dot output missing %q:\n%s", want, out)
		}
	}
}
