package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PersistedReader reads the on-disk persisted format: a sequence of
// records, each a little-endian u32 byte length followed by that many
// payload bytes. It is used by the persist subcommand to replay a log
// capture with no live probe attached.
type PersistedReader struct {
	r io.Reader
}

// NewPersistedReader wraps r for sequential record reads.
func NewPersistedReader(r io.Reader) *PersistedReader {
	return &PersistedReader{r: r}
}

// Next reads and returns the next record's payload. It returns io.EOF
// (unwrapped, so callers can use the ordinary for-range-until-EOF idiom)
// once the stream is exhausted exactly on a record boundary. A length
// prefix with no matching payload bytes is a truncated-record error, not
// EOF, since that can only mean the file was cut off mid-write.
func (p *PersistedReader) Next() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(p.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated record length prefix: %w", err)
		}
		return nil, err
	}

	length := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, length)
	if _, err := io.ReadFull(p.r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("truncated record payload: %w", err)
	}
	return payload, nil
}
