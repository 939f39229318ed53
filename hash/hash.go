// Package hash implements the 32-byte content digest used to address every
// blob in the store.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Size is the number of bytes in a Hash32.
const Size = 32

// Hash32 is a 32-byte content digest. The zero value is NONE, a sentinel
// that is never a valid content address.
type Hash32 [Size]byte

// NONE is the distinguished "absence" value. It is all-zeros and is never
// produced by HashBytes for non-empty inputs with cryptographic probability,
// but it is never checked for on the read path — it exists purely so
// callers have a typed way to express "no hash yet".
var NONE = Hash32{}

// HashBytes digests an arbitrary byte slice.
func HashBytes(b []byte) Hash32 {
	return Hash32(sha256.Sum256(b))
}

// HashString digests the UTF-8 bytes of s. Identical to HashBytes([]byte(s)).
func HashString(s string) Hash32 {
	return HashBytes([]byte(s))
}

// Bytes returns the 32 raw bytes of the hash.
func (h Hash32) Bytes() [Size]byte {
	return h
}

// Hex renders the hash as 64 lowercase hex characters.
func (h Hash32) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements fmt.Stringer so hashes print usefully in logs and errors.
func (h Hash32) String() string {
	return h.Hex()
}

// IsNone reports whether h is the NONE sentinel.
func (h Hash32) IsNone() bool {
	return h == NONE
}

// FromBytes builds a Hash32 from a byte slice of exactly Size bytes.
func FromBytes(b []byte) (Hash32, error) {
	var h Hash32
	if len(b) != Size {
		return h, fmt.Errorf("hash: expected %d bytes, got %d", Size, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// FromHex parses a 64-character lowercase (or uppercase) hex string.
func FromHex(s string) (Hash32, error) {
	var h Hash32
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("hash: invalid hex: %w", err)
	}
	return FromBytes(b)
}

// ShardPath splits the hex rendering into the two-character directory
// prefix and the remaining 62-character suffix used by the filesystem
// backend's directory sharding.
func (h Hash32) ShardPath() (prefix, rest string) {
	hx := h.Hex()
	return hx[:2], hx[2:]
}
