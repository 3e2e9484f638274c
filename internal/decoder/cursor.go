package decoder

import (
	"bytes"
	"unicode/utf8"
)

// Cursor is a forward-only byte cursor over a record's argument bytes. All
// fixed-width integers on the wire are little-endian; LEB128 integers are
// little-endian base-128 with a continuation bit in each byte's MSB.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential consumption starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Tail returns the unconsumed bytes without advancing the cursor.
func (c *Cursor) Tail() []byte {
	return c.buf[c.pos:]
}

// ReadBytes consumes and returns the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, errMissingLogArgument()
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUint reads an n-byte (n in {1,2,4,8}) little-endian unsigned integer.
func (c *Cursor) ReadUint(n int) (uint64, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadInt reads an n-byte little-endian two's-complement signed integer and
// sign-extends it to int64.
func (c *Cursor) ReadInt(n int) (int64, error) {
	u, err := c.ReadUint(n)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*n)
	return int64(u<<shift) >> shift, nil
}

// ReadCString reads bytes up to the first NUL (exclusive) and advances past
// it. If no NUL is found, it consumes to the end of the buffer and
// succeeds anyway, tolerating a target that truncated the string before
// its terminator made it into the record. Bytes that aren't valid UTF-8
// are rejected as a missing argument rather than decoded lossily.
func (c *Cursor) ReadCString() (string, error) {
	rest := c.Tail()
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		c.pos = len(c.buf)
		if !utf8.Valid(rest) {
			return "", errMissingLogArgument()
		}
		return string(rest), nil
	}
	c.pos += end + 1
	if !utf8.Valid(rest[:end]) {
		return "", errMissingLogArgument()
	}
	return string(rest[:end]), nil
}

// ReadULEB128 decodes an unsigned LEB128 integer.
func (c *Cursor) ReadULEB128() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := c.ReadBytes(1)
		if err != nil {
			return 0, err
		}
		result |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadSLEB128 decodes a signed LEB128 integer.
func (c *Cursor) ReadSLEB128() (int64, error) {
	var result int64
	var shift uint
	for {
		b, err := c.ReadBytes(1)
		if err != nil {
			return 0, err
		}
		result |= int64(b[0]&0x7f) << shift
		shift += 7
		if b[0]&0x80 == 0 {
			if shift < 64 && (b[0]&0x40) != 0 {
				result |= -1 << shift
			}
			return result, nil
		}
	}
}
