// Package codec implements the fixed-endian (big-endian) primitive I/O used
// by every record's canonical byte form. It is a thin wrapper over
// encoding/binary — the standard-library equivalent of the byteorder crate
// the original implementation used as an external collaborator.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rpcpool/hashio/hash"
)

// ErrReservedNonZero distinguishes a well-formed-but-rejected reserved word
// from a short/truncated read of it: callers use errors.Is against this to
// tell a format fault from a transport fault.
var ErrReservedNonZero = errors.New("codec: unsupported reserved word, expected 0")

// order is the single byte order used throughout the on-disk format.
var order = binary.BigEndian

// wrapShort turns a short/unexpected-EOF read into the codec's own
// description so callers can tell "the stream ended early" from other I/O
// faults further up the stack.
func wrapShort(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("codec: short read: %w", err)
	}
	return err
}

func ReadU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return b[0], nil
}

func WriteU8(w io.Writer, v uint8) (int, error) {
	return w.Write([]byte{v})
}

func ReadU16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return order.Uint16(b[:]), nil
}

func WriteU16(w io.Writer, v uint16) (int, error) {
	var b [2]byte
	order.PutUint16(b[:], v)
	return w.Write(b[:])
}

func ReadU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return order.Uint32(b[:]), nil
}

func WriteU32(w io.Writer, v uint32) (int, error) {
	var b [4]byte
	order.PutUint32(b[:], v)
	return w.Write(b[:])
}

func ReadU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, wrapShort(err)
	}
	return order.Uint64(b[:]), nil
}

func WriteU64(w io.Writer, v uint64) (int, error) {
	var b [8]byte
	order.PutUint64(b[:], v)
	return w.Write(b[:])
}

func ReadI32(r io.Reader) (int32, error) {
	v, err := ReadU32(r)
	return int32(v), err
}

func WriteI32(w io.Writer, v int32) (int, error) {
	return WriteU32(w, uint32(v))
}

func ReadI64(r io.Reader) (int64, error) {
	v, err := ReadU64(r)
	return int64(v), err
}

func WriteI64(w io.Writer, v int64) (int, error) {
	return WriteU64(w, uint64(v))
}

func ReadF32(r io.Reader) (float32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func WriteF32(w io.Writer, v float32) (int, error) {
	return WriteU32(w, math.Float32bits(v))
}

func ReadF64(r io.Reader) (float64, error) {
	v, err := ReadU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func WriteF64(w io.Writer, v float64) (int, error) {
	return WriteU64(w, math.Float64bits(v))
}

// ReadBytes reads a u32 length prefix followed by that many raw bytes.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadU32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapShort(err)
	}
	return buf, nil
}

// WriteBytes writes a u32 length prefix followed by b.
func WriteBytes(w io.Writer, b []byte) (int, error) {
	n1, err := WriteU32(w, uint32(len(b)))
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(b)
	return n1 + n2, err
}

// ReadHash reads 32 raw bytes as a Hash32.
func ReadHash(r io.Reader) (hash.Hash32, error) {
	var b [hash.Size]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return hash.NONE, wrapShort(err)
	}
	return hash.Hash32(b), nil
}

// WriteHash writes the 32 raw bytes of h.
func WriteHash(w io.Writer, h hash.Hash32) (int, error) {
	b := h.Bytes()
	return w.Write(b[:])
}

// ReadReserved reads the u32 "reserved" word that prefixes every built-in
// collection payload and rejects any non-zero value. The original
// implementation wrote this word but silently ignored it on read; this
// implementation treats it as a format discriminator and rejects anything
// but 0, per spec. A short read returns ReadU32's short-read error as is,
// without ErrReservedNonZero (callers distinguish it from the non-zero case
// via errors.Is against ErrReservedNonZero) since a truncated stream is a
// transport fault, not a format fault.
func ReadReserved(r io.Reader) error {
	v, err := ReadU32(r)
	if err != nil {
		return err
	}
	if v != 0 {
		return fmt.Errorf("codec: unsupported reserved word %d, expected 0: %w", v, ErrReservedNonZero)
	}
	return nil
}

// WriteReserved writes the reserved u32(0) word.
func WriteReserved(w io.Writer) (int, error) {
	return WriteU32(w, 0)
}
