package elfmeta

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlatformDescriptorRoundTrips(t *testing.T) {
	data := append(append(append(append(append(
		leBytes32(1), leBytes32(2)...), leBytes32(4)...), leBytes32(4)...), leBytes32(8)...), leBytes32(4)...)

	d, err := parsePlatformDescriptor(data)
	require.NoError(t, err)
	require.Equal(t, PlatformDescriptor{
		CharSize: 1, ShortSize: 2, IntSize: 4, LongSize: 4, LongLongSize: 8, PtrSize: 4,
	}, d)
}

func TestParsePlatformDescriptorRejectsInvalidWidth(t *testing.T) {
	data := append(append(append(append(append(
		leBytes32(1), leBytes32(2)...), leBytes32(3)...), leBytes32(4)...), leBytes32(8)...), leBytes32(4)...)

	_, err := parsePlatformDescriptor(data)
	require.Error(t, err)
	var typed *Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, KindInvalidPlatformDescriptors, typed.Kind)
}

func TestParsePlatformDescriptorRejectsTruncatedSection(t *testing.T) {
	_, err := parsePlatformDescriptor(leBytes32(4))
	require.Error(t, err)
}
