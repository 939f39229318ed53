package hashio

import (
	"bytes"
	"io"

	"github.com/rpcpool/hashio/hash"
)

// Marshaler writes a value's canonical byte form to a sink. Every
// serializable value — record, string, sequence, map — implements it.
type Marshaler interface {
	MarshalHashIO(w io.Writer) (int, error)
}

// Typeable is the type-identity capability. Implementations are expected to
// compute TypeHash/TypeName purely from the type's declared shape, never
// from instance data — callers may invoke it on a freshly zeroed value
// (see ZeroTypeHash) exactly as if it were a static/class method.
type Typeable interface {
	TypeHash() hash.Hash32
	TypeName() string
}

// SchemaDescriptor adds the store-facing, still instance-independent,
// schema metadata a record generator emits: whether the type is an
// unsafe-loader (no envelope), whether an envelope version is recognized,
// and whether a type-hash is recognized either as the current schema or a
// declared ancestor.
type SchemaDescriptor interface {
	Typeable
	UnsafeLoader() bool
	VersionValid(version uint32) bool
	TypeHashValid(h hash.Hash32) bool
}

// Node is the erased capability set returned by Childs(): anything that can
// report its own content hash, its type identity, and its own children.
// It mirrors the teacher-adjacent HashIOType trait from the source this
// spec was distilled from.
type Node interface {
	Marshaler
	TypeHashObj() hash.Hash32
	TypeNameObj() string
	Childs() (*ChildMap, error)
}

// Unmarshaler parses a value from a reader, given the store used to
// resolve child references and the envelope's type-hash (nil for
// unsafe-loader types, which have no envelope at all). It is implemented
// on a pointer to a freshly zeroed value, the same way json.Unmarshaler is.
type Unmarshaler interface {
	UnmarshalHashIO(g Getter, r io.Reader, typeHash *hash.Hash32) error
}

// FallbackUnmarshaler is implemented only by types that declare a plain
// fallback parser, invoked when the envelope's version word is not
// recognized at all (a format older than any declared type-hash chain).
type FallbackUnmarshaler interface {
	UnmarshalHashIOFallback(g Getter, r io.Reader) error
}

// Element is the constraint satisfied by anything usable as the child
// element type of a built-in collection (Seq, OrderedMap): it must be both
// Storable (so the collection can persist it) and an Unmarshaler (so the
// collection can resolve it back via Get).
type Element interface {
	Storable
	Unmarshaler
}

// Ordered is implemented by element types that can serve as a map key: the
// built-in ordered map requires a total order over keys, and since keys are
// themselves shared child records rather than Go primitives, that order
// must be supplied by the key type itself.
type Ordered[T any] interface {
	Less(other *T) bool
}

// ContentHash computes digest(canonical bytes) for any Marshaler, per the
// "Serializable capability" component: the content hash is always derived,
// never stored independently of the bytes that produce it.
func ContentHash(m Marshaler) (hash.Hash32, error) {
	var buf bytes.Buffer
	if _, err := m.MarshalHashIO(&buf); err != nil {
		return hash.NONE, err
	}
	return hash.HashBytes(buf.Bytes()), nil
}

// ZeroTypeHash returns T's type-hash by invoking the method on a pointer to
// a zeroed T. This is the idiomatic Go stand-in for a "static" method: T's
// TypeHash must not read receiver state, a contract the record generator
// guarantees by construction.
func ZeroTypeHash[T any, PT interface {
	*T
	Typeable
}]() hash.Hash32 {
	var zero T
	return PT(&zero).TypeHash()
}

// ZeroTypeName is ZeroTypeHash's counterpart for the type's display name.
func ZeroTypeName[T any, PT interface {
	*T
	Typeable
}]() string {
	var zero T
	return PT(&zero).TypeName()
}
