package cursor

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/ottsav/internal/common"
)

func TestFixedWidthReads(t *testing.T) {
	c := New([]byte{
		0x7F,
		0x12, 0x34,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	})
	u8, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)
	u16, err := c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)
	u32, err := c.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)
	u64, err := c.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)
	assert.Equal(t, 0, c.Remaining())
}

func TestSignedReads(t *testing.T) {
	c := New([]byte{0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFF, 0xFD})
	i8, err := c.ReadI8()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)
	i16, err := c.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)
	i32, err := c.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-3), i32)
}

func TestOutOfBounds(t *testing.T) {
	c := New([]byte{0x01, 0x02})
	_, err := c.ReadU32()
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReadRestExhausts(t *testing.T) {
	c := New([]byte{1, 2, 3, 4})
	_, err := c.ReadU8()
	require.NoError(t, err)
	rest := c.ReadRest()
	assert.Equal(t, []byte{2, 3, 4}, rest)
	assert.Equal(t, 0, c.Remaining())
	_, err = c.ReadU8()
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReadString(t *testing.T) {
	c := New([]byte("héllo"))
	s, err := c.ReadString(6)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)
}

func TestReadStringInvalidUTF8(t *testing.T) {
	c := New([]byte{0xFF, 0xFE, 0xFD})
	_, err := c.ReadString(3)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestGammaRoundTrip(t *testing.T) {
	condition := func(x uint32) bool {
		buf := common.AppendGamma(nil, x)
		c := New(buf)
		got, err := c.ReadGamma()
		return err == nil && got == x && c.Remaining() == 0 &&
			len(buf) == common.GammaSize(x)
	}
	if err := quick.Check(condition, &quick.Config{MaxCount: 10000}); err != nil {
		t.Errorf("Error: %v", err)
	}
}

func TestGammaSizeBoundaries(t *testing.T) {
	cases := []struct {
		val  uint32
		size int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{268435455, 4},
		{268435456, 5},
		{0xFFFFFFFF, 5},
	}
	for _, tc := range cases {
		buf := common.AppendGamma(nil, tc.val)
		require.Len(t, buf, tc.size, "value %d", tc.val)
		c := New(buf)
		got, err := c.ReadGamma()
		require.NoError(t, err)
		assert.Equal(t, tc.val, got)
	}
}

func TestGammaFiveByteForm(t *testing.T) {
	// prefix 11110, low bits of the lead byte are discarded, value is a
	// plain big-endian uint32
	c := New([]byte{0xF7, 0x12, 0x34, 0x56, 0x78})
	v, err := c.ReadGamma()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)
	assert.Equal(t, 5, c.Pos())
}

func TestGammaContinuationBytesUnmasked(t *testing.T) {
	// continuation bytes contribute all 8 bits
	c := New([]byte{0x81, 0xFF})
	v, err := c.ReadGamma()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01FF), v)
}

func TestGammaMalformedPrefix(t *testing.T) {
	for _, lead := range []byte{0xF8, 0xFF} {
		c := New([]byte{lead, 0, 0, 0, 0})
		_, err := c.ReadGamma()
		require.ErrorIs(t, err, ErrMalformedGamma)
	}
}

func TestGammaTruncated(t *testing.T) {
	c := New([]byte{0xC0, 0x01}) // 3-byte form with one byte missing
	_, err := c.ReadGamma()
	require.ErrorIs(t, err, ErrOutOfBounds)
}
