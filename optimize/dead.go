// dead.go removes gates whose outputs nothing ever reads. Three passes:
// count inbound references per wire, sweep the stream backwards releasing
// references through gates that died, then emit the survivors. Input and
// Random gates are always kept; dropping them would desynchronize the
// witness and the verifier's sampling schedule.
//
// The stream must already have disjoint wire namespaces (see
// CombineArithmeticNamespace); reference counts are kept in one flat
// table indexed by wire id.
package optimize

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/svcircuit/svcircuit/circuit"
	"github.com/svcircuit/svcircuit/compose"
	"github.com/svcircuit/svcircuit/log"
)

// EliminateDeadCode returns the stream with dead gates removed. maxWire is
// the largest wire id appearing anywhere in the stream (inclusive).
func EliminateDeadCode(stream []compose.StreamOp, maxWire circuit.Wire) []compose.StreamOp {
	refs := make([]uint32, maxWire+1)
	var buf []circuit.Wire

	for _, op := range stream {
		buf = op.Inputs(buf[:0])
		for _, w := range buf {
			refs[w]++
		}
	}

	// Backwards sweep: a gate whose outputs are all unreferenced is dead,
	// and releasing its input references can kill its producers in turn.
	dead := bitset.New(uint(len(stream)))
	numDead := 0
	var outBuf []circuit.Wire
	for i := len(stream) - 1; i >= 0; i-- {
		op := stream[i]
		outBuf = op.Outputs(outBuf[:0])
		if len(outBuf) == 0 {
			continue
		}
		live := false
		for _, w := range outBuf {
			if refs[w] != 0 {
				live = true
			}
		}
		if live {
			continue
		}
		dead.Set(uint(i))
		numDead++
		buf = op.Inputs(buf[:0])
		for _, w := range buf {
			refs[w]--
		}
	}

	log.Debug("dead code elimination",
		"dead", numDead, "total", len(stream),
		"reduction_pct", float64(numDead)/float64(max(len(stream), 1))*100)

	out := make([]compose.StreamOp, 0, len(stream)-numDead)
	for i, op := range stream {
		if dead.Test(uint(i)) && !alwaysKept(op) {
			continue
		}
		out = append(out, op)
	}
	return out
}

// alwaysKept reports whether a dead gate must survive anyway: Input gates
// consume a witness slot and Random gates consume a verifier sample, so
// removing either would shift every later slot.
func alwaysKept(op compose.StreamOp) bool {
	switch op.Kind {
	case compose.KindGF2:
		return op.Bool.Kind == circuit.OpInput || op.Bool.Kind == circuit.OpRandom
	case compose.KindZ64:
		return op.Arith.Kind == circuit.OpInput || op.Arith.Kind == circuit.OpRandom
	default:
		return false
	}
}
