package collections

import (
	"errors"
	"fmt"
	"io"
	"sort"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/codec"
	"github.com/rpcpool/hashio/hash"
)

// OrderedMap is the store's ordered map from a shared key to a shared
// value: a u32 reserved word, a u32 count, then count (key-hash,
// value-hash) pairs written in the key's natural order. Like Seq and Str
// it is an unsafe-loader.
type OrderedMap[K any, PK interface {
	*K
	hashio.Element
	hashio.Ordered[K]
}, V any, PV interface {
	*V
	hashio.Element
}] struct {
	keys   []*K
	values []*V
}

// NewOrderedMap builds an empty map.
func NewOrderedMap[K any, PK interface {
	*K
	hashio.Element
	hashio.Ordered[K]
}, V any, PV interface {
	*V
	hashio.Element
}]() *OrderedMap[K, PK, V, PV] {
	return &OrderedMap[K, PK, V, PV]{}
}

// Set inserts or replaces the value for key, maintaining sorted key order.
func (m *OrderedMap[K, PK, V, PV]) Set(key *K, value *V) {
	idx := sort.Search(len(m.keys), func(i int) bool {
		return !PK(m.keys[i]).Less(key)
	})
	if idx < len(m.keys) && !PK(key).Less(m.keys[idx]) && !PK(m.keys[idx]).Less(key) {
		m.values[idx] = value
		return
	}
	m.keys = append(m.keys, nil)
	copy(m.keys[idx+1:], m.keys[idx:])
	m.keys[idx] = key

	m.values = append(m.values, nil)
	copy(m.values[idx+1:], m.values[idx:])
	m.values[idx] = value
}

// Len reports the number of entries.
func (m *OrderedMap[K, PK, V, PV]) Len() int { return len(m.keys) }

// At returns the key/value pair at position i, in sorted key order.
func (m *OrderedMap[K, PK, V, PV]) At(i int) (*K, *V) { return m.keys[i], m.values[i] }

func (m *OrderedMap[K, PK, V, PV]) mapTypeTag() string {
	return fmt.Sprintf("BTreeMap<%s,%s>", hashio.ZeroTypeName[K, PK](), hashio.ZeroTypeName[V, PV]())
}

func (m *OrderedMap[K, PK, V, PV]) TypeHash() hash.Hash32     { return hash.HashString(m.mapTypeTag()) }
func (m *OrderedMap[K, PK, V, PV]) TypeName() string          { return m.mapTypeTag() }
func (m *OrderedMap[K, PK, V, PV]) UnsafeLoader() bool        { return true }
func (m *OrderedMap[K, PK, V, PV]) VersionValid(uint32) bool  { return false }
func (m *OrderedMap[K, PK, V, PV]) TypeHashValid(h hash.Hash32) bool {
	return h == m.TypeHash()
}
func (m *OrderedMap[K, PK, V, PV]) TypeHashObj() hash.Hash32 { return m.TypeHash() }
func (m *OrderedMap[K, PK, V, PV]) TypeNameObj() string      { return m.TypeName() }

func (m *OrderedMap[K, PK, V, PV]) MarshalHashIO(w io.Writer) (int, error) {
	n := 0
	if c, err := codec.WriteReserved(w); err != nil {
		return n, err
	} else {
		n += c
	}
	if c, err := codec.WriteU32(w, uint32(len(m.keys))); err != nil {
		return n, err
	} else {
		n += c
	}
	for i := range m.keys {
		kh, err := hashio.ContentHash(PK(m.keys[i]))
		if err != nil {
			return n, err
		}
		if c, err := codec.WriteHash(w, kh); err != nil {
			return n, err
		} else {
			n += c
		}
		vh, err := hashio.ContentHash(PV(m.values[i]))
		if err != nil {
			return n, err
		}
		if c, err := codec.WriteHash(w, vh); err != nil {
			return n, err
		} else {
			n += c
		}
	}
	return n, nil
}

func (m *OrderedMap[K, PK, V, PV]) UnmarshalHashIO(g hashio.Getter, r io.Reader, _ *hash.Hash32) error {
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
	keys := make([]*K, 0, count)
	values := make([]*V, 0, count)
	for i := uint32(0); i < count; i++ {
		kh, err := codec.ReadHash(r)
		if err != nil {
			return &hashio.IOError{Err: err}
		}
		vh, err := codec.ReadHash(r)
		if err != nil {
			return &hashio.IOError{Err: err}
		}
		key, err := hashio.Get[K, PK](g, kh)
		if err != nil {
			return err
		}
		value, err := hashio.Get[V, PV](g, vh)
		if err != nil {
			return err
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	m.keys = keys
	m.values = values
	return nil
}

// Childs enumerates both halves of every entry: a reachability walk that
// only visited values (as StoreChilds persists both) would miss every key
// blob, leaving a re-imported graph unable to resolve the key hash read
// back in UnmarshalHashIO above.
func (m *OrderedMap[K, PK, V, PV]) Childs() (*hashio.ChildMap, error) {
	cm := hashio.NewChildMap(len(m.keys) * 2)
	for i := range m.keys {
		cm.Set(fmt.Sprintf("key#%d", i), PK(m.keys[i]))
		cm.Set(fmt.Sprintf("val#%d", i), PV(m.values[i]))
	}
	return cm, nil
}

func (m *OrderedMap[K, PK, V, PV]) StoreChilds(p hashio.Putter) error {
	for i := range m.keys {
		if err := hashio.Put[K, PK](p, m.keys[i]); err != nil {
			return err
		}
		if err := hashio.Put[V, PV](p, m.values[i]); err != nil {
			return err
		}
	}
	return nil
}
