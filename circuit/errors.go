// errors.go defines the closed error taxonomy of the flattening pipeline.
// Every error carries enough context (parent name, wire id, missing wire
// list) to locate the offending netlist position; front-ends translate the
// wire ids back to human-readable names before reporting.
package circuit

import "fmt"

// MissingDependencyError is returned by Merge when a subcircuit descriptor
// references a module that is not present in the library. Fatal.
type MissingDependencyError struct {
	Dependency string
	Parent     string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("no circuit named '%s' available (referenced by %s)", e.Dependency, e.Parent)
}

// UndrivenGateError is returned by Build when a gate reads from a wire that
// is not a module input, not a pending subcircuit output, and not driven by
// any gate. The flattener tolerates it by dropping the gate; everywhere
// else it is fatal.
type UndrivenGateError struct {
	Parent string
	Gate   int
	Wire   Wire
}

func (e *UndrivenGateError) Error() string {
	return fmt.Sprintf("gate %d in %s reads from wire %d, but nothing outputs to this wire", e.Gate, e.Parent, e.Wire)
}

// DriveConflictError is returned by AddGate when the gate's output wire
// already has a driver. Fatal; it indicates a source-level bug.
type DriveConflictError struct {
	Wire Wire
}

func (e *DriveConflictError) Error() string {
	return fmt.Sprintf("multiple entities try to write to wire %d", e.Wire)
}

// EncapsulationViolationError is returned by Merge when a connection pair
// names a child wire that is not part of the child's interface. Fatal.
type EncapsulationViolationError struct {
	Dependency string
	Parent     string
	Wire       Wire
}

func (e *EncapsulationViolationError) Error() string {
	return fmt.Sprintf("wire %d of circuit '%s' is not an I/O port (accessed by %s)", e.Wire, e.Dependency, e.Parent)
}

// NonTopoError is returned by Merge when a referenced child is not flat,
// which means the flattening order was wrong. Fatal.
type NonTopoError struct{}

func (e *NonTopoError) Error() string {
	return "this circuit is not topologically-sorted"
}

// UndrivenOutputError is returned by Merge when a child fails to drive one
// or more of its declared outputs. Wires lists every missing output, in
// ascending order. Fatal.
type UndrivenOutputError struct {
	Name  string
	Wires []Wire
}

func (e *UndrivenOutputError) Error() string {
	return fmt.Sprintf("circuit %s is missing output bits: %v", e.Name, e.Wires)
}

// TranslationError is returned by Operation.Translate when the substitution
// arities do not match the gate's own.
type TranslationError struct {
	Kind           OpKind
	WantIn, GotIn  int
	WantOut, GotOut int
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("cannot translate %s gate: got %d inputs and %d outputs, want %d and %d",
		e.Kind, e.GotIn, e.GotOut, e.WantIn, e.WantOut)
}
