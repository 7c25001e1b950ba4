package parse

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/svcircuit/svcircuit/circuit"
	"github.com/svcircuit/svcircuit/compose"
)

const connectionFixture = `# cross-domain bindings for the top modules
.model combined
.gate btoa wire=64 wire=65 wire=66 out=7
.gate top_bool local=0 local=1
.gate top_arith local=5
.end
`

func TestReadConnection(t *testing.T) {
	conn, err := ReadConnection(strings.NewReader(connectionFixture))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if conn.Name != "combined" {
		t.Fatalf("name = %q, want %q", conn.Name, "combined")
	}
	if len(conn.Conversions) != 1 {
		t.Fatalf("got %d conversions, want 1", len(conn.Conversions))
	}
	conv := conn.Conversions[0]
	if conv.Arith != 7 {
		t.Fatalf("arith wire = %d, want 7", conv.Arith)
	}
	if !slices.Equal(conv.Bools, []circuit.Wire{64, 65, 66}) {
		t.Fatalf("bool wires = %v", conv.Bools)
	}

	if len(conn.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(conn.Bindings))
	}
	if conn.Bindings[0].Module != "top_bool" || !slices.Equal(conn.Bindings[0].Locals, []circuit.Wire{0, 1}) {
		t.Fatalf("binding 0 = %+v", conn.Bindings[0])
	}
	if conn.Bindings[1].Module != "top_arith" || !slices.Equal(conn.Bindings[1].Locals, []circuit.Wire{5}) {
		t.Fatalf("binding 1 = %+v", conn.Bindings[1])
	}
}

func TestReadConnection_RejectsSubckt(t *testing.T) {
	_, err := ReadConnection(strings.NewReader(".model m\n.subckt foo a=1\n"))
	if !errors.Is(err, ErrSubcktUnsupported) {
		t.Fatalf("got %v, want ErrSubcktUnsupported", err)
	}
}

func TestReadConnection_BadOperand(t *testing.T) {
	_, err := ReadConnection(strings.NewReader(".gate btoa wire=abc out=1\n"))
	if err == nil {
		t.Fatal("expected an error for a non-numeric wire")
	}
}

func TestReadConnection_UnknownDirective(t *testing.T) {
	_, err := ReadConnection(strings.NewReader(".frobnicate\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown directive")
	}
}

func TestConnection_Apply(t *testing.T) {
	conn, err := ReadConnection(strings.NewReader(connectionFixture))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	boolean := circuit.New[bool]("gf2")
	if _, err := boolean.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	arith := circuit.New[uint64]("z64")
	if _, err := arith.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}

	comp := compose.NewCompositor(boolean, arith)
	conn.Apply(comp)

	want := []compose.StreamOp{compose.B2A(7, 64)}
	if got := comp.Connections(); !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
