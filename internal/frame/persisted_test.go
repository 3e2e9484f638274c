package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func appendRecord(buf *bytes.Buffer, payload []byte) {
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(payload)))
	buf.Write(lenPrefix[:])
	buf.Write(payload)
}

func TestPersistedReaderReadsEachRecord(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, []byte("first"))
	appendRecord(&buf, []byte("second"))

	r := NewPersistedReader(&buf)

	got, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("first"), got)

	got, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestPersistedReaderReportsTruncatedPayloadAsError(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, []byte("one"))
	appendRecord(&buf, []byte("two"))
	// A third record claims more payload bytes than are actually present.
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], 100)
	buf.Write(lenPrefix[:])
	buf.Write([]byte("short"))

	r := NewPersistedReader(&buf)

	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	require.False(t, errors.Is(err, io.EOF))
}
