package carexport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/collections"
	"github.com/rpcpool/hashio/examples/testtype"
	"github.com/rpcpool/hashio/hash"
	"github.com/rpcpool/hashio/store/carexport"
	"github.com/rpcpool/hashio/store/storetest"
)

func TestCollectReachableIncludesRootAndChildren(t *testing.T) {
	v := testtype.New(1, "hello")

	hashes, err := carexport.CollectReachable(v)
	require.NoError(t, err)
	require.Len(t, hashes, 2) // the TestType record itself, plus its Str child

	root, err := hashio.ContentHash(v)
	require.NoError(t, err)
	require.Contains(t, hashes, root)
}

func TestCollectReachableHashesResolvesRegisteredRootFromBareHash(t *testing.T) {
	src := storetest.New()
	v := testtype.New(7, "from-hash")
	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](src, v))

	root, err := hashio.ContentHash(v)
	require.NoError(t, err)

	typed, err := carexport.CollectReachable(v)
	require.NoError(t, err)

	fromHash, err := carexport.CollectReachableHashes(src, []hash.Hash32{root})
	require.NoError(t, err)
	require.ElementsMatch(t, typed, fromHash)
}

func TestCollectReachableHashesTreatsUnregisteredRootAsLeaf(t *testing.T) {
	src := storetest.New()
	str := collections.NewStr("unsafe-loader leaf")
	require.NoError(t, hashio.Put[collections.Str, *collections.Str](src, str))

	root, err := hashio.ContentHash(str)
	require.NoError(t, err)

	hashes, err := carexport.CollectReachableHashes(src, []hash.Hash32{root})
	require.NoError(t, err)
	require.Equal(t, []hash.Hash32{root}, hashes)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := storetest.New()
	v := testtype.New(42, "round-trip")
	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](src, v))

	root, err := hashio.ContentHash(v)
	require.NoError(t, err)

	hashes, err := carexport.CollectReachable(v)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, carexport.Export(&buf, src, hashes, []hash.Hash32{root}))

	dst := storetest.New()
	imported, err := carexport.Import(&buf, dst)
	require.NoError(t, err)
	require.ElementsMatch(t, hashes, imported)

	got, err := hashio.Get[testtype.TestType, *testtype.TestType](dst, root)
	require.NoError(t, err)
	require.Equal(t, uint32(42), got.X)
}
