package collections_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/collections"
)

func TestStrRoundTrip(t *testing.T) {
	s := collections.NewStr("hello, hashio")

	var buf bytes.Buffer
	_, err := s.MarshalHashIO(&buf)
	require.NoError(t, err)

	var out collections.Str
	err = out.UnmarshalHashIO(nil, &buf, nil)
	require.NoError(t, err)
	require.Equal(t, s.Value, out.Value)
}

func TestStrRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	_, err := buf.Write([]byte{0, 0, 0, 1, 0xff})
	require.NoError(t, err)

	var out collections.Str
	err = out.UnmarshalHashIO(nil, &buf, nil)
	require.Error(t, err)
	var parseErr *hashio.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestStrIsUnsafeLoader(t *testing.T) {
	s := collections.NewStr("x")
	require.True(t, s.UnsafeLoader())
}

func TestStrLessOrdersLexicographically(t *testing.T) {
	a := collections.NewStr("a")
	b := collections.NewStr("b")
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
}

func TestStrHasNoChildren(t *testing.T) {
	s := collections.NewStr("leaf")
	cm, err := s.Childs()
	require.NoError(t, err)
	require.Equal(t, 0, cm.Len())
}
