package codec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpcpool/hashio/codec"
	"github.com/rpcpool/hashio/hash"
)

func TestIntegerRoundTrips(t *testing.T) {
	var buf bytes.Buffer

	_, err := codec.WriteU32(&buf, 0xdeadbeef)
	require.NoError(t, err)
	v, err := codec.ReadU32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), v)

	_, err = codec.WriteI64(&buf, -12345)
	require.NoError(t, err)
	i, err := codec.ReadI64(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(-12345), i)

	_, err = codec.WriteF64(&buf, 3.5)
	require.NoError(t, err)
	f, err := codec.ReadF64(&buf)
	require.NoError(t, err)
	require.Equal(t, 3.5, f)
}

func TestBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.WriteBytes(&buf, []byte("hello"))
	require.NoError(t, err)
	got, err := codec.ReadBytes(&buf)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestEmptyBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.WriteBytes(&buf, nil)
	require.NoError(t, err)
	got, err := codec.ReadBytes(&buf)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestHashRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := hash.HashString("a-child")
	_, err := codec.WriteHash(&buf, h)
	require.NoError(t, err)
	got, err := codec.ReadHash(&buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestShortReadIsAnError(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0})
	_, err := codec.ReadU32(buf)
	require.Error(t, err)
}

func TestReservedWordRejectsNonZero(t *testing.T) {
	var buf bytes.Buffer
	_, _ = codec.WriteU32(&buf, 1)
	err := codec.ReadReserved(&buf)
	require.Error(t, err)

	buf.Reset()
	_, _ = codec.WriteReserved(&buf)
	require.NoError(t, codec.ReadReserved(&buf))
}
