package decoder

import "github.com/Javier-varez/Postform/internal/elfmeta"

// RecordCodec reads the dialect-specific record header and renders a
// format string against the dialect-specific argument encoding. The two
// implementations are typedCodec (platform-descriptor dialect) and
// leb128Codec (LEB128 dialect).
type RecordCodec interface {
	ReadHeader(c *Cursor) (timestamp uint64, strPtr uint64, err error)
	FormatMessage(meta *elfmeta.ElfMetadata, format string, args *Cursor) (string, error)
}

// Log is one decoded Postform log record, ready to print.
type Log struct {
	// Timestamp is the raw tick count read off the wire. Divide by
	// meta.TimestampFreq to get seconds.
	Timestamp uint64
	Seconds   float64
	Level     elfmeta.Severity
	File      string
	Line      uint32
	Message   string
}

// Decoder turns framed Postform records into Log values, using the
// metadata recovered from the firmware ELF to pick a RecordCodec and
// resolve interned strings.
type Decoder struct {
	meta  *elfmeta.ElfMetadata
	codec RecordCodec
}

// NewDecoder builds a Decoder for meta, selecting the LEB128 dialect when
// meta.Platform is nil and the platform-descriptor dialect otherwise.
func NewDecoder(meta *elfmeta.ElfMetadata) *Decoder {
	var codec RecordCodec
	if meta.Platform != nil {
		codec = newTypedCodec(*meta.Platform)
	} else {
		codec = newLEB128Codec()
	}
	return &Decoder{meta: meta, codec: codec}
}

// Decode implements the record decode pipeline: read the header, recover
// the call-site string for the string pointer, classify severity from the
// address ranges, then render the format string against the remaining
// argument bytes.
func (d *Decoder) Decode(buf []byte) (Log, error) {
	c := NewCursor(buf)

	timestamp, strPtr, err := d.codec.ReadHeader(c)
	if err != nil {
		return Log{}, err
	}

	file, line, format, err := d.meta.Strings.CallSiteString(int(strPtr))
	if err != nil {
		return Log{}, err
	}

	level := elfmeta.Classify(d.meta.Ranges, strPtr)

	message, err := d.codec.FormatMessage(d.meta, format, c)
	if err != nil {
		return Log{}, err
	}

	seconds := float64(timestamp)
	if d.meta.TimestampFreq != 0 {
		seconds = float64(timestamp) / d.meta.TimestampFreq
	}

	return Log{
		Timestamp: timestamp,
		Seconds:   seconds,
		Level:     level,
		File:      file,
		Line:      line,
		Message:   message,
	}, nil
}
