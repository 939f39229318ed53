package hashio

import (
	"github.com/rpcpool/hashio/codec"
	"github.com/rpcpool/hashio/hash"
)

// ErrNotRegistered marks a hash whose blob cannot be resolved into a typed
// Node generically: either it carries no envelope (an unsafe-loader
// collection, or an opaque blob written outside Put) or its envelope names
// a type-hash no package registered. Callers that only need reachability,
// not decoding — a generic archival tool walking a graph from bare hashes,
// in particular — should treat such a hash as a leaf rather than fail.
const ErrNotRegistered = errString("hashio: no loader registered for this blob's type-hash")

// LoaderFunc reconstructs a blob as an opaque Node given only a Getter and
// its hash, the same way hashio.Get does for a statically known Go type.
type LoaderFunc func(g Getter, h hash.Hash32) (Node, error)

var loaderRegistry = map[hash.Hash32]LoaderFunc{}

// RegisterLoader associates a type's TypeHash with a loader able to
// reconstruct it as a Node. Generated and hand-written record types call
// this from an init(), the same way encoding/gob registers concrete types
// for interface decoding: it lets a caller that holds only a hash — not a
// Go type parameter — still resolve that hash's children.
func RegisterLoader(typeHash hash.Hash32, loader LoaderFunc) {
	loaderRegistry[typeHash] = loader
}

// LoadNode resolves h to its registered Node representation by reading the
// blob's envelope and looking up its type-hash in the loader registry. It
// returns ErrNotRegistered, rather than an IOError, whenever it cannot establish that
// h is a registered safe-loader envelope: a zero reserved word where a
// version would be, a short read while probing the header, or a type-hash
// nothing registered. Unsafe-loader collections (Seq, OrderedMap, Str)
// encode differently from each other and carry no self-describing marker a
// generic reader could key off, so any of those shapes can legitimately
// produce a short or nonsensical header read here; that is an expected
// "cannot resolve generically" outcome for a caller with no type parameter
// to give Get, not a corruption signal. Only a failure to open the blob at
// all, or an error from the registered loader itself, is returned as a fault.
func LoadNode(g Getter, h hash.Hash32) (Node, error) {
	r, err := g.Open(h)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	defer r.Close()

	version, err := codec.ReadU32(r)
	if err != nil {
		return nil, ErrNotRegistered
	}
	if version == 0 {
		return nil, ErrNotRegistered
	}

	typeHash, err := codec.ReadHash(r)
	if err != nil {
		return nil, ErrNotRegistered
	}
	loader, ok := loaderRegistry[typeHash]
	if !ok {
		return nil, ErrNotRegistered
	}
	return loader(g, h)
}
