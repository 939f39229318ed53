package collections

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/codec"
	"github.com/rpcpool/hashio/hash"
)

// Seq is the store's ordered sequence of shared child items: a u32
// reserved word, a u32 count, then that many 32-byte child hashes. Like
// every built-in collection it is an unsafe-loader (no envelope).
type Seq[T any, PT interface {
	*T
	hashio.Element
}] struct {
	Items []*T
}

// NewSeq builds a Seq from a slice of already-constructed items.
func NewSeq[T any, PT interface {
	*T
	hashio.Element
}](items ...*T) *Seq[T, PT] {
	return &Seq[T, PT]{Items: items}
}

func (s *Seq[T, PT]) seqTypeTag() string {
	return fmt.Sprintf("Vec<%s>", hashio.ZeroTypeName[T, PT]())
}

func (s *Seq[T, PT]) TypeHash() hash.Hash32 { return hash.HashString(s.seqTypeTag()) }
func (s *Seq[T, PT]) TypeName() string      { return s.seqTypeTag() }
func (s *Seq[T, PT]) UnsafeLoader() bool    { return true }
func (s *Seq[T, PT]) VersionValid(uint32) bool {
	return false
}
func (s *Seq[T, PT]) TypeHashValid(h hash.Hash32) bool { return h == s.TypeHash() }
func (s *Seq[T, PT]) TypeHashObj() hash.Hash32         { return s.TypeHash() }
func (s *Seq[T, PT]) TypeNameObj() string              { return s.TypeName() }

func (s *Seq[T, PT]) MarshalHashIO(w io.Writer) (int, error) {
	n := 0
	if m, err := codec.WriteReserved(w); err != nil {
		return n, err
	} else {
		n += m
	}
	if m, err := codec.WriteU32(w, uint32(len(s.Items))); err != nil {
		return n, err
	} else {
		n += m
	}
	for _, item := range s.Items {
		h, err := hashio.ContentHash(PT(item))
		if err != nil {
			return n, err
		}
		m, err := codec.WriteHash(w, h)
		if err != nil {
			return n, err
		}
		n += m
	}
	return n, nil
}

func (s *Seq[T, PT]) UnmarshalHashIO(g hashio.Getter, r io.Reader, _ *hash.Hash32) error {
	if err := codec.ReadReserved(r); err != nil {
		if errors.Is(err, codec.ErrReservedNonZero) {
			return &hashio.ParseError{Err: err}
		}
		return &hashio.IOError{Err: err}
	}
	count, err := codec.ReadU32(r)
	if err != nil {
		return &hashio.IOError{Err: err}
	}
	items := make([]*T, 0, count)
	for i := uint32(0); i < count; i++ {
		childHash, err := codec.ReadHash(r)
		if err != nil {
			return &hashio.IOError{Err: err}
		}
		item, err := hashio.Get[T, PT](g, childHash)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	s.Items = items
	return nil
}

func (s *Seq[T, PT]) Childs() (*hashio.ChildMap, error) {
	cm := hashio.NewChildMap(len(s.Items))
	for i, item := range s.Items {
		cm.Set(strconv.Itoa(i), PT(item))
	}
	return cm, nil
}

func (s *Seq[T, PT]) StoreChilds(p hashio.Putter) error {
	for _, item := range s.Items {
		if err := hashio.Put[T, PT](p, item); err != nil {
			return err
		}
	}
	return nil
}
