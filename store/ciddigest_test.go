package store_test

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	"github.com/rpcpool/hashio/hash"
	"github.com/rpcpool/hashio/store"
)

func TestToCIDFromCIDRoundTrip(t *testing.T) {
	h := hash.HashString("widget")

	c, err := store.ToCID(h)
	require.NoError(t, err)

	got, err := store.FromCID(c)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestToCIDIsDeterministic(t *testing.T) {
	h := hash.HashString("widget")

	a, err := store.ToCID(h)
	require.NoError(t, err)
	b, err := store.ToCID(h)
	require.NoError(t, err)
	require.True(t, a.Equals(b))
}

func TestFromCIDRejectsNonSha256Multihash(t *testing.T) {
	mh, err := multihash.Sum([]byte("widget"), multihash.SHA1, -1)
	require.NoError(t, err)
	c := cid.NewCidV1(cid.Raw, mh)

	_, err = store.FromCID(c)
	require.Error(t, err)
}
