// connection.go reads connection-circuit files: the line-oriented format
// that names the cross-domain conversion gates and the wire-name
// translations between the boolean and arithmetic netlists. Grammar:
//
//	.model NAME
//	.gate btoa wire=BOOL_ID [wire=BOOL_ID ...] out=ARITH_ID
//	.gate MODULE local=WIRE [local=WIRE ...]
//	.end
//
// Subcircuit instantiation has no meaning in a connection file, so .subckt
// lines are rejected.
package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/svcircuit/svcircuit/circuit"
	"github.com/svcircuit/svcircuit/compose"
)

// ErrSubcktUnsupported is returned when a connection file instantiates a
// subcircuit.
var ErrSubcktUnsupported = errors.New("parse: .subckt is not allowed in a connection circuit")

// Conversion is one boolean-to-arithmetic gate: the arithmetic wire equals
// the little-endian integer formed by the listed boolean wires. Bools[0]
// is the block's low wire.
type Conversion struct {
	Arith circuit.Wire
	Bools []circuit.Wire
}

// Binding records a `.gate MODULE local=...` line: the listed wires of the
// named module, in declaration order, translated into the connection
// namespace.
type Binding struct {
	Module string
	Locals []circuit.Wire
}

// Connection is a parsed connection circuit.
type Connection struct {
	Name        string
	Conversions []Conversion
	Bindings    []Binding
}

// ReadConnection parses a connection circuit. Lines that are empty or
// start with '#' are skipped.
func ReadConnection(r io.Reader) (*Connection, error) {
	conn := &Connection{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case ".model":
			if len(fields) != 2 {
				return nil, fmt.Errorf("parse: line %d: .model wants a single name", line)
			}
			conn.Name = fields[1]
		case ".gate":
			if len(fields) < 2 {
				return nil, fmt.Errorf("parse: line %d: .gate wants a gate type", line)
			}
			if err := conn.parseGate(fields[1], fields[2:], line); err != nil {
				return nil, err
			}
		case ".subckt":
			return nil, ErrSubcktUnsupported
		case ".end":
			// Terminates the model; anything after it is ignored.
			return conn, scanner.Err()
		default:
			return nil, fmt.Errorf("parse: line %d: unknown directive %q", line, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Connection) parseGate(kind string, operands []string, line int) error {
	if kind == "btoa" {
		var conv Conversion
		sawOut := false
		for _, op := range operands {
			key, val, err := splitOperand(op, line)
			if err != nil {
				return err
			}
			switch key {
			case "wire":
				conv.Bools = append(conv.Bools, val)
			case "out":
				conv.Arith = val
				sawOut = true
			default:
				return fmt.Errorf("parse: line %d: unknown btoa operand %q", line, key)
			}
		}
		if len(conv.Bools) == 0 || !sawOut {
			return fmt.Errorf("parse: line %d: btoa wants at least one wire= and an out=", line)
		}
		c.Conversions = append(c.Conversions, conv)
		return nil
	}

	// Any other gate type names a module whose wires are being bound into
	// the connection namespace.
	binding := Binding{Module: kind}
	for _, op := range operands {
		key, val, err := splitOperand(op, line)
		if err != nil {
			return err
		}
		if key != "local" {
			return fmt.Errorf("parse: line %d: unknown binding operand %q", line, key)
		}
		binding.Locals = append(binding.Locals, val)
	}
	if len(binding.Locals) == 0 {
		return fmt.Errorf("parse: line %d: binding for %q has no local= operands", line, kind)
	}
	c.Bindings = append(c.Bindings, binding)
	return nil
}

func splitOperand(op string, line int) (string, circuit.Wire, error) {
	key, val, ok := strings.Cut(op, "=")
	if !ok {
		return "", 0, fmt.Errorf("parse: line %d: operand %q is not key=value", line, op)
	}
	w, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse: line %d: operand %q: %v", line, op, err)
	}
	return key, w, nil
}

// Apply adds the file's conversion gates to a compositor, low wire first.
func (c *Connection) Apply(comp *compose.Compositor) {
	for _, conv := range c.Conversions {
		comp.Connect(conv.Arith, conv.Bools[0])
	}
}
