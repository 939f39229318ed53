// Package recordgen is the runtime support library for generated record
// types. cmd/hashiogen emits, for each declared "record" schema, a Go
// struct plus methods that call into this package rather than
// reimplementing type-hash computation, child enumeration, and ancestor
// fallback dispatch by hand in every generated file — the same division of
// labor the teacher's ipld/ipldbindcode generated code has with its
// surrounding non-generated helper packages (tooling, dummycid).
package recordgen

import (
	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/hash"
)

// PrimitiveTag names a primitive field's stringified type — "u32", "f32",
// "bytes", and so on — the per-primitive ingredient of TypeHash.
type PrimitiveTag string

// ComputeTypeHash implements the type_hash algorithm: digest the
// concatenation of digest(stringify(type)) for every primitive field, in
// declaration order, followed by child_type::type_hash() for every child
// field, in declaration order. Field names never enter the computation —
// renaming a field without changing its type or position does not change
// the type hash.
func ComputeTypeHash(primitives []PrimitiveTag, children []hash.Hash32) hash.Hash32 {
	var buf []byte
	for _, p := range primitives {
		h := hash.HashString(string(p))
		b := h.Bytes()
		buf = append(buf, b[:]...)
	}
	for _, c := range children {
		b := c.Bytes()
		buf = append(buf, b[:]...)
	}
	return hash.HashBytes(buf)
}

// TypeHashValid reports whether got equals self or any declared ancestor,
// implementing the spec's type_hash_valid(h) rule that backs schema
// migration: a blob written under a retired schema is still loadable
// because its type-hash appears in the current schema's ancestor list.
func TypeHashValid(got, self hash.Hash32, ancestors ...hash.Hash32) bool {
	if got == self {
		return true
	}
	for _, a := range ancestors {
		if got == a {
			return true
		}
	}
	return false
}

// NamedChild pairs a field name with its erased child handle, the building
// block of the childs() ordered map every generated record emits.
type NamedChild struct {
	Name string
	Node hashio.Node
}

// ChildMapOf builds the erased childs() view from the generated type's
// concrete child fields, preserving declaration order.
func ChildMapOf(fields ...NamedChild) (*hashio.ChildMap, error) {
	cm := hashio.NewChildMap(len(fields))
	for _, f := range fields {
		cm.Set(f.Name, f.Node)
	}
	return cm, nil
}

// UnrecognizedVersion builds the VersionError a hand-written
// UnmarshalHashIOFallback method can return for an envelope version it does
// not handle. cmd/hashiogen does not emit UnmarshalHashIOFallback methods.
func UnrecognizedVersion(v uint32) error {
	return &hashio.VersionError{Version: v}
}

// WrapIOErr is a small convenience so generated primitive-field read/write
// sequences can wrap the first codec error without repeating the
// hashio.IOError{Err: err} literal at every field.
func WrapIOErr(err error) error {
	if err == nil {
		return nil
	}
	return &hashio.IOError{Err: err}
}
