package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpBufferModeFlagsOffsetMatchesHistoricalConstantForChannelZero32Bit(t *testing.T) {
	// The previously hardcoded offset (44) for a 32-bit target's
	// up-channel 0 should fall out of the general layout computation.
	layout := newControlBlockLayout(4)
	require.Equal(t, uint32(44), layout.UpBufferModeFlagsOffset(0))
}

func TestUpBufferModeFlagsOffsetAdvancesPerChannel(t *testing.T) {
	layout := newControlBlockLayout(4)
	require.Equal(t, layout.UpBufferModeFlagsOffset(0)+layout.bufferSize(), layout.UpBufferModeFlagsOffset(1))
}

func TestUpBufferModeFlagsOffsetAccountsForWiderPointers(t *testing.T) {
	layout32 := newControlBlockLayout(4)
	layout64 := newControlBlockLayout(8)
	require.Greater(t, layout64.UpBufferModeFlagsOffset(0), layout32.UpBufferModeFlagsOffset(0))
}

func TestComposeFlagsPreservesNonModeBits(t *testing.T) {
	existing := uint32(0xF0) // bits outside the mode mask set
	got := ComposeFlags(existing, RTTModeBlockingHost)
	require.Equal(t, uint32(0xF0|uint32(RTTModeBlockingHost)), got)
}
