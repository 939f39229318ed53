// Package store holds backend-adjacent helpers that are not themselves a
// backend: CID interop and CAR archival (see carexport), shared by
// fsstore and the operator CLI.
package store

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/rpcpool/hashio/hash"
)

// rawCodec is the multicodec tag for "raw binary", used since store blobs
// are opaque to CID-level tooling: interop only needs an address, not a
// dag-pb/dag-cbor interpretation of the bytes.
const rawCodec = 0x55

// ToCID wraps h's 32 digest bytes in a CIDv1 using the sha2-256 multihash
// code, so any IPFS-aware tool can name and cross-reference a blob address
// without understanding the store's envelope format.
func ToCID(h hash.Hash32) (cid.Cid, error) {
	raw := h.Bytes()
	mh, err := multihash.Encode(raw[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(rawCodec, mh), nil
}

// FromCID recovers the Hash32 that ToCID wrapped, rejecting any CID whose
// multihash is not a plain sha2-256 digest of the expected length.
func FromCID(c cid.Cid) (hash.Hash32, error) {
	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return hash.NONE, err
	}
	if decoded.Code != multihash.SHA2_256 || decoded.Length != hash.Size {
		return hash.NONE, &cidMismatchError{c}
	}
	return hash.FromBytes(decoded.Digest)
}

type cidMismatchError struct {
	c cid.Cid
}

func (e *cidMismatchError) Error() string {
	return "store: cid " + e.c.String() + " is not a sha2-256 hashio digest"
}
