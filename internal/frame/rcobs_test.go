package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeRCOBS mirrors the decoder's assumed wire construction: COBS-stuff
// the reversed payload (dropping its terminator), reverse that, then
// append the transport's literal 0x00 frame delimiter.
func encodeRCOBS(payload []byte) []byte {
	reversed := make([]byte, len(payload))
	for i, b := range payload {
		reversed[len(payload)-1-i] = b
	}

	stuffed := encodeCOBS(reversed)
	stuffed = stuffed[:len(stuffed)-1] // drop encodeCOBS's own terminator

	out := make([]byte, len(stuffed))
	for i, b := range stuffed {
		out[len(stuffed)-1-i] = b
	}
	return append(out, 0x00)
}

func decodeRCOBSViaPushByte(t *testing.T, stuffed []byte) []byte {
	t.Helper()
	dec := NewRCOBSDecoder()
	for _, b := range stuffed {
		frame, done, err := dec.PushByte(b)
		require.NoError(t, err)
		if done {
			return frame
		}
	}
	t.Fatal("frame never completed")
	return nil
}

func TestRCOBSRoundTripsPayloadWithoutZeros(t *testing.T) {
	payload := []byte("hello world")
	got := decodeRCOBSViaPushByte(t, encodeRCOBS(payload))
	require.Equal(t, payload, got)
}

func TestRCOBSRoundTripsPayloadWithEmbeddedZeros(t *testing.T) {
	payload := []byte{1, 2, 0, 0, 3, 0, 4}
	got := decodeRCOBSViaPushByte(t, encodeRCOBS(payload))
	require.Equal(t, payload, got)
}

func TestRCOBSRoundTripsEmptyPayload(t *testing.T) {
	got := decodeRCOBSViaPushByte(t, encodeRCOBS(nil))
	require.Empty(t, got)
}

func TestRCOBSReportsMalformedFrameAndRecovers(t *testing.T) {
	dec := NewRCOBSDecoder()

	// 0xFF as the final (reversed: first) code byte promises a 254-byte
	// run the two-byte frame cannot contain.
	for _, b := range []byte{'a', 0xFF} {
		_, done, err := dec.PushByte(b)
		require.NoError(t, err)
		require.False(t, done)
	}
	_, done, err := dec.PushByte(0x00)
	require.False(t, done)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)

	// The buffer was cleared; the next well-formed frame decodes.
	payload := []byte("next frame")
	got := decodeRCOBSViaPushByte(t, encodeRCOBS(payload))
	require.Equal(t, payload, got)
}
