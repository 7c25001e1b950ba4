// codec.go is the binary wire format for composite gate streams: a
// fixed-width little-endian framing so downstream provers can decode it
// with flat reads. Encode and Decode round-trip exactly; the element order
// is preserved untouched.
package compose

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/svcircuit/svcircuit/circuit"
)

// ErrBadStream is wrapped by Decode errors caused by malformed input
// rather than I/O failure.
var ErrBadStream = errors.New("compose: malformed gate stream")

// Encode writes the stream, prefixed with its element count.
func Encode(w io.Writer, stream []StreamOp) error {
	bw := bufio.NewWriter(w)
	if err := writeU64(bw, uint64(len(stream))); err != nil {
		return err
	}
	for _, op := range stream {
		if err := encodeOp(bw, op); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a stream written by Encode.
func Decode(r io.Reader) ([]StreamOp, error) {
	br := bufio.NewReader(r)
	n, err := readU64(br)
	if err != nil {
		return nil, err
	}
	// Cap the preallocation; the count is untrusted input.
	stream := make([]StreamOp, 0, min(n, 1<<20))
	for i := uint64(0); i < n; i++ {
		op, err := decodeOp(br)
		if err != nil {
			return nil, err
		}
		stream = append(stream, op)
	}
	return stream, nil
}

func encodeOp(w *bufio.Writer, op StreamOp) error {
	if err := w.WriteByte(byte(op.Kind)); err != nil {
		return err
	}
	switch op.Kind {
	case KindGF2:
		return encodeGate(w, op.Bool.Kind, op.Bool.Out, op.Bool.A, op.Bool.B, boolToU64(op.Bool.Const))
	case KindZ64:
		return encodeGate(w, op.Arith.Kind, op.Arith.Out, op.Arith.A, op.Arith.B, op.Arith.Const)
	case KindB2A, KindSizeHint:
		if err := writeU64(w, op.A); err != nil {
			return err
		}
		return writeU64(w, op.B)
	default:
		return fmt.Errorf("%w: unknown element kind %d", ErrBadStream, op.Kind)
	}
}

// encodeGate writes a domain gate as kind byte plus its meaningful fields.
func encodeGate(w *bufio.Writer, kind circuit.OpKind, out, a, b circuit.Wire, c uint64) error {
	if err := w.WriteByte(byte(kind)); err != nil {
		return err
	}
	var fields []uint64
	switch kind {
	case circuit.OpInput, circuit.OpRandom:
		fields = []uint64{out}
	case circuit.OpConst:
		fields = []uint64{out, c}
	case circuit.OpAdd, circuit.OpSub, circuit.OpMul:
		fields = []uint64{out, a, b}
	case circuit.OpAddConst, circuit.OpSubConst, circuit.OpMulConst:
		fields = []uint64{out, a, c}
	case circuit.OpAssertZero:
		fields = []uint64{a}
	default:
		return fmt.Errorf("%w: unknown gate kind %d", ErrBadStream, kind)
	}
	for _, f := range fields {
		if err := writeU64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func decodeOp(r *bufio.Reader) (StreamOp, error) {
	kb, err := r.ReadByte()
	if err != nil {
		return StreamOp{}, err
	}
	switch Kind(kb) {
	case KindGF2:
		out, a, b, c, kind, err := decodeGate(r)
		if err != nil {
			return StreamOp{}, err
		}
		return GF2(circuit.Operation[bool]{Kind: kind, Out: out, A: a, B: b, Const: c != 0}), nil
	case KindZ64:
		out, a, b, c, kind, err := decodeGate(r)
		if err != nil {
			return StreamOp{}, err
		}
		return Z64(circuit.Operation[uint64]{Kind: kind, Out: out, A: a, B: b, Const: c}), nil
	case KindB2A, KindSizeHint:
		a, err := readU64(r)
		if err != nil {
			return StreamOp{}, err
		}
		b, err := readU64(r)
		if err != nil {
			return StreamOp{}, err
		}
		return StreamOp{Kind: Kind(kb), A: a, B: b}, nil
	default:
		return StreamOp{}, fmt.Errorf("%w: unknown element kind %d", ErrBadStream, kb)
	}
}

func decodeGate(r *bufio.Reader) (out, a, b, c uint64, kind circuit.OpKind, err error) {
	kb, err := r.ReadByte()
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	kind = circuit.OpKind(kb)
	read := func(dst *uint64) {
		if err == nil {
			*dst, err = readU64(r)
		}
	}
	switch kind {
	case circuit.OpInput, circuit.OpRandom:
		read(&out)
	case circuit.OpConst:
		read(&out)
		read(&c)
	case circuit.OpAdd, circuit.OpSub, circuit.OpMul:
		read(&out)
		read(&a)
		read(&b)
	case circuit.OpAddConst, circuit.OpSubConst, circuit.OpMulConst:
		read(&out)
		read(&a)
		read(&c)
	case circuit.OpAssertZero:
		read(&a)
	default:
		return 0, 0, 0, 0, 0, fmt.Errorf("%w: unknown gate kind %d", ErrBadStream, kb)
	}
	return out, a, b, c, kind, err
}

func writeU64(w *bufio.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU64(r *bufio.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
