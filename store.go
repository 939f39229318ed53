package hashio

import (
	"io"

	"github.com/rpcpool/hashio/codec"
	"github.com/rpcpool/hashio/hash"
)

// Getter opens the raw blob addressed by h. It is the single primitive a
// backend must provide for reads; the envelope/version/type-hash dispatch
// protocol (spec section 4.5 get(h) algorithm) lives once, here, in Get.
type Getter interface {
	Open(h hash.Hash32) (io.ReadCloser, error)
}

// BlobWriter is the write side of a single blob creation. Commit publishes
// the blob atomically; Abort discards it. Exactly one of the two must be
// called.
type BlobWriter interface {
	io.Writer
	Commit() error
	Abort() error
}

// Putter is the single primitive a backend must provide for writes: whether
// a blob already exists (dedup/idempotence) and how to begin writing a new
// one. The put(v) algorithm (spec section 4.5) lives once, here, in Put.
type Putter interface {
	Exists(h hash.Hash32) (bool, error)
	Create(h hash.Hash32) (BlobWriter, error)
}

// Store is the full backend contract: a Getter and a Putter together.
type Store interface {
	Getter
	Putter
}

// Storable is the constraint Put requires of a record type: it must know
// its own content hash ingredients (Node), its schema metadata, and how to
// persist its own children concretely (StoreChilds) before itself persists.
type Storable interface {
	Node
	SchemaDescriptor
	StoreChilds(p Putter) error
}

// Put implements the store's put(v) algorithm: compute the content hash,
// skip entirely if already present (idempotence), otherwise persist every
// child first, then write the envelope (unless T is an unsafe-loader) and
// the payload, and finally publish atomically.
func Put[T any, PT interface {
	*T
	Storable
}](p Putter, v *T) error {
	pv := PT(v)

	h, err := ContentHash(pv)
	if err != nil {
		return err
	}

	exists, err := p.Exists(h)
	if err != nil {
		return &IOError{Err: err}
	}
	if exists {
		return nil
	}

	if err := pv.StoreChilds(p); err != nil {
		return err
	}

	bw, err := p.Create(h)
	if err != nil {
		return &IOError{Err: err}
	}

	if err := writeEnvelopeAndPayload(bw, pv); err != nil {
		_ = bw.Abort()
		return err
	}

	if err := bw.Commit(); err != nil {
		return &IOError{Err: err}
	}
	return nil
}

func writeEnvelopeAndPayload(w BlobWriter, pv interface {
	Marshaler
	SchemaDescriptor
}) error {
	if !pv.UnsafeLoader() {
		if _, err := codec.WriteU32(w, 1); err != nil {
			return &IOError{Err: err}
		}
		if _, err := codec.WriteHash(w, pv.TypeHash()); err != nil {
			return &IOError{Err: err}
		}
	}
	if _, err := pv.MarshalHashIO(w); err != nil {
		return err
	}
	return nil
}

// Parseable is the constraint Get requires of a record type: it must
// declare its schema metadata and know how to unmarshal itself from a
// reader, given a Getter to resolve child references.
type Parseable interface {
	SchemaDescriptor
	Unmarshaler
}

// Get implements the store's get(h) algorithm: open the blob, and unless T
// is an unsafe-loader, validate the envelope version (falling back to a
// declared plain parser on an unrecognized version) and type-hash (which
// may name a declared ancestor schema, triggering migration inside
// UnmarshalHashIO) before dispatching to the parser.
func Get[T any, PT interface {
	*T
	Parseable
}](g Getter, h hash.Hash32) (*T, error) {
	r, err := g.Open(h)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	defer r.Close()

	var zero T
	pv := PT(&zero)

	if pv.UnsafeLoader() {
		if err := pv.UnmarshalHashIO(g, r, nil); err != nil {
			return nil, err
		}
		return &zero, nil
	}

	version, err := codec.ReadU32(r)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	if !pv.VersionValid(version) {
		fb, ok := any(pv).(FallbackUnmarshaler)
		if !ok {
			return nil, &VersionError{Version: version}
		}
		if err := fb.UnmarshalHashIOFallback(g, r); err != nil {
			if err == FallbackNotSupported {
				return nil, &VersionError{Version: version}
			}
			return nil, err
		}
		return &zero, nil
	}

	typeHash, err := codec.ReadHash(r)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	if !pv.TypeHashValid(typeHash) {
		return nil, &TypeError{TypeName: pv.TypeName(), Got: typeHash}
	}

	if err := pv.UnmarshalHashIO(g, r, &typeHash); err != nil {
		return nil, err
	}
	return &zero, nil
}
