package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorReadUintLittleEndian(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04})
	v, err := c.ReadUint(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0x04030201), v)
	require.Equal(t, 0, c.Remaining())
}

func TestCursorReadIntSignExtends(t *testing.T) {
	c := NewCursor([]byte{0xFF}) // -1 as int8
	v, err := c.ReadInt(1)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)
}

func TestCursorReadUintErrorsOnShortBuffer(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})
	_, err := c.ReadUint(4)
	require.Error(t, err)
}

func TestCursorReadCStringStopsAtNul(t *testing.T) {
	c := NewCursor([]byte("hello\x00world"))
	s, err := c.ReadCString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, []byte("world"), c.Tail())
}

func TestCursorReadCStringWithNoNulConsumesRestAndSucceeds(t *testing.T) {
	c := NewCursor([]byte("truncated"))
	s, err := c.ReadCString()
	require.NoError(t, err)
	require.Equal(t, "truncated", s)
	require.Equal(t, 0, c.Remaining())
}

func TestCursorReadCStringRejectsInvalidUTF8(t *testing.T) {
	c := NewCursor([]byte{0xFF, 0xFE, 0x00})
	_, err := c.ReadCString()
	require.Error(t, err)
	var typed *Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, KindMissingLogArgument, typed.Kind)
}

func TestCursorULEB128RoundTrip(t *testing.T) {
	// 300 encodes as 0xAC 0x02 in ULEB128.
	c := NewCursor([]byte{0xAC, 0x02})
	v, err := c.ReadULEB128()
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
}

func TestCursorSLEB128NegativeRoundTrip(t *testing.T) {
	// -129 encodes as 0xFF 0x7E in SLEB128.
	c := NewCursor([]byte{0xFF, 0x7E})
	v, err := c.ReadSLEB128()
	require.NoError(t, err)
	require.Equal(t, int64(-129), v)
}

func TestCursorSLEB128PositiveRoundTrip(t *testing.T) {
	// 129 encodes as 0x81 0x01 in SLEB128.
	c := NewCursor([]byte{0x81, 0x01})
	v, err := c.ReadSLEB128()
	require.NoError(t, err)
	require.Equal(t, int64(129), v)
}
