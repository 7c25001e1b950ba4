// witness.go reads witness files: one step per line, each line a string
// of '0'/'1' characters. The step length is fixed per proof system and is
// configuration of the consumer, so the reader takes it as a parameter.
package parse

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
)

// Witness is the sequence of private input bit vectors supplied to the
// circuit at proving time, one fixed-length step per entry.
type Witness []*bitset.BitSet

// ReadWitness parses a witness from line-oriented text. Every line must be
// exactly stepLen characters of '0' or '1'; anything else is an error that
// names the offending line.
func ReadWitness(r io.Reader, stepLen int) (Witness, error) {
	if stepLen <= 0 {
		return nil, fmt.Errorf("parse: witness step length must be positive, got %d", stepLen)
	}

	var witness Witness
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(text) != stepLen {
			return nil, fmt.Errorf("parse: witness line %d has %d bits, want %d", line, len(text), stepLen)
		}
		step := bitset.New(uint(stepLen))
		for i, c := range text {
			switch c {
			case '0':
			case '1':
				step.Set(uint(i))
			default:
				return nil, fmt.Errorf("parse: bad bit %q in witness line %d", c, line)
			}
		}
		witness = append(witness, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return witness, nil
}

// StepBits expands a witness step back into a bool slice of the given
// length, little-endian with respect to the line order: bit i is the i-th
// character of the original line.
func StepBits(step *bitset.BitSet, stepLen int) []bool {
	bits := make([]bool, stepLen)
	for i := range bits {
		bits[i] = step.Test(uint(i))
	}
	return bits
}
