package collections_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/collections"
	"github.com/rpcpool/hashio/store/storetest"
)

func TestOrderedMapPutGetRoundTrip(t *testing.T) {
	s := storetest.New()

	m := collections.NewOrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str]()
	m.Set(collections.NewStr("zebra"), collections.NewStr("last"))
	m.Set(collections.NewStr("apple"), collections.NewStr("first"))
	m.Set(collections.NewStr("mango"), collections.NewStr("middle"))

	require.NoError(t, hashio.Put[collections.OrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str], *collections.OrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str]](s, m))

	h, err := hashio.ContentHash(m)
	require.NoError(t, err)

	out, err := hashio.Get[collections.OrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str], *collections.OrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str]](s, h)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	k0, v0 := out.At(0)
	k1, v1 := out.At(1)
	k2, v2 := out.At(2)
	require.Equal(t, "apple", k0.Value)
	require.Equal(t, "first", v0.Value)
	require.Equal(t, "mango", k1.Value)
	require.Equal(t, "middle", v1.Value)
	require.Equal(t, "zebra", k2.Value)
	require.Equal(t, "last", v2.Value)
}

func TestOrderedMapSetReplacesExistingKey(t *testing.T) {
	m := collections.NewOrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str]()
	m.Set(collections.NewStr("k"), collections.NewStr("v1"))
	m.Set(collections.NewStr("k"), collections.NewStr("v2"))

	require.Equal(t, 1, m.Len())
	_, v := m.At(0)
	require.Equal(t, "v2", v.Value)
}

func TestOrderedMapChildsEnumeratesKeysAndValues(t *testing.T) {
	m := collections.NewOrderedMap[collections.Str, *collections.Str, collections.Str, *collections.Str]()
	m.Set(collections.NewStr("a"), collections.NewStr("1"))
	m.Set(collections.NewStr("b"), collections.NewStr("2"))

	cm, err := m.Childs()
	require.NoError(t, err)
	require.Equal(t, 4, cm.Len())

	key0, ok := cm.Get("key#0")
	require.True(t, ok)
	require.Equal(t, "a", key0.(*collections.Str).Value)

	val0, ok := cm.Get("val#0")
	require.True(t, ok)
	require.Equal(t, "1", val0.(*collections.Str).Value)
}
