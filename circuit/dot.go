// dot.go renders the gate graph in Graphviz DOT form for debugging.
package circuit

import (
	"fmt"
	"io"

	"github.com/emicklei/dot"
)

// WriteDot writes the circuit's gate graph as a directed DOT graph. Nodes
// are labeled with the gate variant and its wires; edges carry no labels.
func (c *Circuit[T]) WriteDot(w io.Writer) error {
	g := dot.NewGraph(dot.Directed)
	g.Attr("label", c.Name)

	nodes := make(map[int]dot.Node)
	for _, idx := range c.graph.nodeIndices() {
		op := c.graph.weight(idx)
		n := g.Node(fmt.Sprintf("n%d", idx))
		n.Attr("label", gateLabel(op))
		nodes[idx] = n
	}
	for _, idx := range c.graph.nodeIndices() {
		for _, succ := range c.graph.successors(idx) {
			g.Edge(nodes[idx], nodes[succ])
		}
	}

	_, err := io.WriteString(w, g.String())
	return err
}

func gateLabel[T WireValue](g Operation[T]) string {
	switch g.Kind {
	case OpInput, OpRandom:
		return fmt.Sprintf("%s(%d)", g.Kind, g.Out)
	case OpConst:
		return fmt.Sprintf("Const(%d, %v)", g.Out, g.Const)
	case OpAdd, OpSub, OpMul:
		return fmt.Sprintf("%s(%d, %d, %d)", g.Kind, g.Out, g.A, g.B)
	case OpAddConst, OpSubConst, OpMulConst:
		return fmt.Sprintf("%s(%d, %d, %v)", g.Kind, g.Out, g.A, g.Const)
	case OpAssertZero:
		return fmt.Sprintf("AssertZero(%d)", g.A)
	default:
		return g.Kind.String()
	}
}
