// Package collections implements the three built-in unsafe-loader types
// every record schema can nest without paying for an envelope: Str, Seq[T]
// and OrderedMap[K,V].
package collections

import (
	"errors"
	"io"
	"unicode/utf8"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/codec"
	"github.com/rpcpool/hashio/hash"
)

// stringTypeTag is frozen once, per the design notes' instruction that
// primitive/collection tag strings are picked once and never change.
const stringTypeTag = "String"

// Str is the store's String type: a u32 length prefix followed by UTF-8
// bytes, with no envelope (unsafe-loader).
type Str struct {
	Value string
}

// NewStr is a convenience constructor, mirroring how generated record
// constructors are expected to look.
func NewStr(v string) *Str { return &Str{Value: v} }

func (s *Str) TypeHash() hash.Hash32 { return hash.HashString(stringTypeTag) }
func (s *Str) TypeName() string      { return stringTypeTag }
func (s *Str) UnsafeLoader() bool    { return true }

// VersionValid/TypeHashValid are never consulted for an unsafe-loader type
// (Get/Put skip the envelope entirely), but are required by the
// SchemaDescriptor contract.
func (s *Str) VersionValid(uint32) bool         { return false }
func (s *Str) TypeHashValid(h hash.Hash32) bool { return h == s.TypeHash() }
func (s *Str) TypeHashObj() hash.Hash32         { return s.TypeHash() }
func (s *Str) TypeNameObj() string              { return s.TypeName() }

func (s *Str) MarshalHashIO(w io.Writer) (int, error) {
	return codec.WriteBytes(w, []byte(s.Value))
}

func (s *Str) UnmarshalHashIO(_ hashio.Getter, r io.Reader, _ *hash.Hash32) error {
	b, err := codec.ReadBytes(r)
	if err != nil {
		return &hashio.IOError{Err: err}
	}
	if !utf8.Valid(b) {
		return &hashio.ParseError{Err: errInvalidUTF8}
	}
	s.Value = string(b)
	return nil
}

func (s *Str) Childs() (*hashio.ChildMap, error) { return hashio.NewChildMap(0), nil }
func (s *Str) StoreChilds(hashio.Putter) error   { return nil }

// Less gives Str a total order by comparing the underlying string
// lexicographically, letting Str be used as an OrderedMap key.
func (s *Str) Less(other *Str) bool { return s.Value < other.Value }

var errInvalidUTF8 = errors.New("collections: invalid UTF-8 in String payload")
