package probe

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindControlBlockLocatesSignature(t *testing.T) {
	target := newFakeTarget()
	base := uint32(0x20001000)
	for i, b := range rttID {
		target.memory[base+uint32(i)] = b
	}
	s := NewSession(target)

	addr, err := FindControlBlock(context.Background(), s, 0x20000000, 0x8000)
	require.NoError(t, err)
	require.Equal(t, base, addr)
}

func TestFindControlBlockErrorsWhenSignatureAbsent(t *testing.T) {
	s := NewSession(newFakeTarget())
	_, err := FindControlBlock(context.Background(), s, 0x20000000, 0x1000)
	require.Error(t, err)
}

func TestConfigureModeSetsLowBitsOnly(t *testing.T) {
	target := newFakeTarget()
	s := NewSession(target)
	cbAddr := uint32(0x20000000)
	layout := newControlBlockLayout(4)
	flagsAddr := cbAddr + layout.UpBufferModeFlagsOffset(0)

	var existing [4]byte
	binary.LittleEndian.PutUint32(existing[:], 0xF0)
	require.NoError(t, s.WriteMemory(context.Background(), flagsAddr, existing[:]))

	require.NoError(t, ConfigureMode(context.Background(), s, cbAddr, 4, 0, RTTModeBlockingHost))

	var got [4]byte
	require.NoError(t, s.ReadMemory(context.Background(), flagsAddr, got[:]))
	require.Equal(t, uint32(0xF0|uint32(RTTModeBlockingHost)), binary.LittleEndian.Uint32(got[:]))
}

func writeUpBufferHeader(t *testing.T, s *Session, cbAddr uint32, ptrSize uint32, channel uint32, bufferAddr, size, wrOff, rdOff uint32) {
	t.Helper()
	layout := newControlBlockLayout(ptrSize)
	base := cbAddr + layout.headerSize() + channel*layout.bufferSize()

	putPtr := func(off, v uint32) {
		b := make([]byte, ptrSize)
		binary.LittleEndian.PutUint32(b, v)
		require.NoError(t, s.WriteMemory(context.Background(), base+off, b))
	}
	put32 := func(off, v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		require.NoError(t, s.WriteMemory(context.Background(), base+off, b[:]))
	}

	putPtr(ptrSize, bufferAddr) // pBuffer
	put32(2*ptrSize, size)
	put32(2*ptrSize+4, wrOff)
	put32(2*ptrSize+8, rdOff)
}

func TestDrainUpBufferReadsLinearRegion(t *testing.T) {
	target := newFakeTarget()
	s := NewSession(target)
	cbAddr := uint32(0x20000000)
	bufferAddr := uint32(0x20001000)

	for i, b := range []byte("hi") {
		target.memory[bufferAddr+uint32(i)] = b
	}
	writeUpBufferHeader(t, s, cbAddr, 4, 0, bufferAddr, 64, 2, 0)

	out, err := DrainUpBuffer(context.Background(), s, cbAddr, 4, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), out)
}

func TestDrainUpBufferReturnsEmptyWhenCaughtUp(t *testing.T) {
	target := newFakeTarget()
	s := NewSession(target)
	cbAddr := uint32(0x20000000)

	writeUpBufferHeader(t, s, cbAddr, 4, 0, 0x20001000, 64, 5, 5)

	out, err := DrainUpBuffer(context.Background(), s, cbAddr, 4, 0)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDrainUpBufferHandlesWraparound(t *testing.T) {
	target := newFakeTarget()
	s := NewSession(target)
	cbAddr := uint32(0x20000000)
	bufferAddr := uint32(0x20001000)
	size := uint32(8)

	// Ring contents: tail "XY" at offset 6-7, head "Z" at offset 0.
	target.memory[bufferAddr+6] = 'X'
	target.memory[bufferAddr+7] = 'Y'
	target.memory[bufferAddr+0] = 'Z'
	writeUpBufferHeader(t, s, cbAddr, 4, 0, bufferAddr, size, 1, 6)

	out, err := DrainUpBuffer(context.Background(), s, cbAddr, 4, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("XYZ"), out)
}
