// Package hashio defines the capability interfaces (Marshaler, Unmarshaler,
// Typeable, Node) and the error taxonomy shared by every record type and by
// the store backends. It corresponds to the "Serializable / Hashable /
// Typeable capabilities" and "error taxonomy" components of the design.
package hashio

import (
	"fmt"

	"github.com/rpcpool/hashio/hash"
)

// errString is a constant, comparable error, in the spirit of the teacher's
// store/types/errors.go errorType pattern.
type errString string

func (e errString) Error() string { return string(e) }

// FallbackNotSupported is returned by UnmarshalHashIOFallback when a type
// declares no plain fallback parser.
const FallbackNotSupported = errString("hashio: fallback not supported for this type")

// Undefined signals a programming precondition violation. It is always
// fatal: callers should not attempt recovery.
type Undefined struct {
	Msg string
}

func (e *Undefined) Error() string { return "hashio: undefined: " + e.Msg }

// VersionError is returned when an envelope's version word is not
// recognized by the target type and the type declares no fallback parser.
type VersionError struct {
	Version uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("hashio: unsupported envelope version %d", e.Version)
}

// TypeError is returned when an envelope's type-hash is not recognized by
// the target type or any of its declared ancestors.
type TypeError struct {
	TypeName string
	Got      hash.Hash32
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("hashio: %s: unrecognized type-hash %s", e.TypeName, e.Got.Hex())
}

// IOError wraps a transport fault from the underlying backend.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("hashio: io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// ParseError wraps a malformed-payload fault (e.g. invalid UTF-8).
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("hashio: parse error: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
