// regalloc.go renames stream wires onto a small register file. Registers
// are recycled the moment their last reader has passed, and the smallest
// free register is always taken first, via a min-heap, which keeps the
// live set packed at low indices and improves cache locality in the
// prover. Boolean blocks feeding B2A conversion gates are the exception:
// the whole 64-wire block is allocated contiguously from the monotonic
// counter so the conversion can address it by its base.
//
// The stream must already have disjoint wire namespaces (see
// CombineArithmeticNamespace).
package optimize

import (
	"container/heap"
	"fmt"

	"github.com/svcircuit/svcircuit/circuit"
	"github.com/svcircuit/svcircuit/compose"
	"github.com/svcircuit/svcircuit/log"
)

// wireHeap is a min-heap of free register ids.
type wireHeap []circuit.Wire

func (h wireHeap) Len() int            { return len(h) }
func (h wireHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h wireHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *wireHeap) Push(x interface{}) { *h = append(*h, x.(circuit.Wire)) }
func (h *wireHeap) Pop() interface{} {
	old := *h
	n := len(old)
	w := old[n-1]
	*h = old[:n-1]
	return w
}

// RegisterAliasing rewrites the stream onto recycled register ids. Fails
// if a gate reads a wire no earlier gate defined, which means the stream
// was not in dependency order.
func RegisterAliasing(stream []compose.StreamOp, maxWire circuit.Wire) ([]compose.StreamOp, error) {
	// Pass 1: time of last use per wire, and the contiguity constraints
	// imposed by B2A blocks.
	lastUse := make(map[circuit.Wire]int, len(stream))
	contigBlocks := make(map[circuit.Wire]circuit.Wire)
	var buf []circuit.Wire
	for i, op := range stream {
		buf = op.Inputs(buf[:0])
		for _, w := range buf {
			lastUse[w] = i
		}
		if op.Kind == compose.KindB2A {
			for _, w := range buf {
				contigBlocks[w] = op.B
			}
		}
	}

	// Pass 2: walk the stream allocating registers.
	free := &wireHeap{}
	var next circuit.Wire
	alias := make(map[circuit.Wire]circuit.Wire)
	maxLive := 0

	out := make([]compose.StreamOp, 0, len(stream))
	newIns := make([]circuit.Wire, 0, compose.B2AWidth)
	newOuts := make([]circuit.Wire, 0, 4)

	for i, op := range stream {
		newIns = newIns[:0]
		newOuts = newOuts[:0]

		buf = op.Inputs(buf[:0])
		for _, w := range buf {
			a, ok := alias[w]
			if !ok {
				return nil, fmt.Errorf("optimize: gate %d reads wire %d before any gate defines it", i, w)
			}
			newIns = append(newIns, a)
		}

		// Release the registers of inputs past their last use.
		for _, w := range buf {
			if i >= lastUse[w] {
				if a, ok := alias[w]; ok {
					delete(alias, w)
					heap.Push(free, a)
				}
			}
		}

		outBuf := op.Outputs(nil)
		for _, w := range outBuf {
			if base, ok := contigBlocks[w]; ok {
				// This wire belongs to a B2A input block: allocate the
				// whole block consecutively so the conversion can address
				// it by its base register.
				for bw := base; bw < base+compose.B2AWidth; bw++ {
					alias[bw] = next
					next++
					delete(contigBlocks, bw)
				}
			} else if _, ok := alias[w]; !ok {
				if free.Len() > 0 {
					alias[w] = heap.Pop(free).(circuit.Wire)
				} else {
					alias[w] = next
					next++
				}
			}
			maxLive = max(maxLive, len(alias))
			newOuts = append(newOuts, alias[w])
		}

		translated, err := op.Translate(newIns, newOuts)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}

	largestArith, largestBool := compose.LargestWires(out)
	used := max(largestArith, largestBool)
	log.Debug("register aliasing",
		"registers", used, "wires", maxWire, "peak_live", maxLive,
		"reduction_pct", (1-float64(used)/float64(max(maxWire, 1)))*100)

	return out, nil
}
