package collections_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/collections"
	"github.com/rpcpool/hashio/store/storetest"
)

func TestSeqPutGetRoundTrip(t *testing.T) {
	s := storetest.New()

	seq := collections.NewSeq[collections.Str, *collections.Str](
		collections.NewStr("one"),
		collections.NewStr("two"),
		collections.NewStr("three"),
	)

	require.NoError(t, hashio.Put[collections.Seq[collections.Str, *collections.Str], *collections.Seq[collections.Str, *collections.Str]](s, seq))

	h, err := hashio.ContentHash(seq)
	require.NoError(t, err)

	out, err := hashio.Get[collections.Seq[collections.Str, *collections.Str], *collections.Seq[collections.Str, *collections.Str]](s, h)
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	require.Equal(t, "one", out.Items[0].Value)
	require.Equal(t, "two", out.Items[1].Value)
	require.Equal(t, "three", out.Items[2].Value)
}

func TestSeqPutIsIdempotent(t *testing.T) {
	s := storetest.New()
	seq := collections.NewSeq[collections.Str, *collections.Str](collections.NewStr("dup"))

	require.NoError(t, hashio.Put[collections.Seq[collections.Str, *collections.Str], *collections.Seq[collections.Str, *collections.Str]](s, seq))
	writesAfterFirst := s.Writes

	require.NoError(t, hashio.Put[collections.Seq[collections.Str, *collections.Str], *collections.Seq[collections.Str, *collections.Str]](s, seq))
	require.Equal(t, writesAfterFirst, s.Writes)
}

func TestSeqEmpty(t *testing.T) {
	s := storetest.New()
	seq := collections.NewSeq[collections.Str, *collections.Str]()
	require.NoError(t, hashio.Put[collections.Seq[collections.Str, *collections.Str], *collections.Seq[collections.Str, *collections.Str]](s, seq))

	h, err := hashio.ContentHash(seq)
	require.NoError(t, err)
	out, err := hashio.Get[collections.Seq[collections.Str, *collections.Str], *collections.Seq[collections.Str, *collections.Str]](s, h)
	require.NoError(t, err)
	require.Empty(t, out.Items)
}
