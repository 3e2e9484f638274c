package elfmeta

import (
	"bytes"
	"strconv"
	"strings"
)

// InternedStringTable is the immutable byte buffer copied out of the
// `.interned_strings` ELF section. On-wire pointers are byte offsets into
// this buffer.
type InternedStringTable struct {
	data []byte
}

// NewInternedStringTable builds a table from a raw `.interned_strings`
// section image. Exported so callers that already have a parsed section
// (or a test) can build an ElfMetadata without going through Load.
func NewInternedStringTable(data []byte) InternedStringTable {
	return newInternedStringTable(data)
}

func newInternedStringTable(data []byte) InternedStringTable {
	// Own a copy so the table outlives the ELF file's backing buffer.
	buf := make([]byte, len(data))
	copy(buf, data)
	return InternedStringTable{data: buf}
}

func (t InternedStringTable) nulTerminated(offset int) ([]byte, error) {
	if offset < 0 || offset > len(t.data) {
		return nil, errInvalidFormatString()
	}
	rest := t.data[offset:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return nil, errInvalidFormatString()
	}
	return rest[:end], nil
}

// UserString extracts the NUL-terminated, lossily-decoded UTF-8 string at
// the given byte offset. Used for the %k format specifier.
func (t InternedStringTable) UserString(offset int) (string, error) {
	raw, err := t.nulTerminated(offset)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// CallSiteString extracts the string at offset and splits it into its three
// "file@line@format" fields.
func (t InternedStringTable) CallSiteString(offset int) (file string, line uint32, format string, err error) {
	raw, err := t.nulTerminated(offset)
	if err != nil {
		return "", 0, "", err
	}
	raw = []byte(strings.ToValidUTF8(string(raw), "�"))

	firstAt := bytes.IndexByte(raw, '@')
	if firstAt < 0 {
		return "", 0, "", errInvalidFormatString()
	}
	file = string(raw[:firstAt])
	rest := raw[firstAt+1:]

	secondAt := bytes.IndexByte(rest, '@')
	if secondAt < 0 {
		return "", 0, "", errInvalidFormatString()
	}
	lineStr := string(rest[:secondAt])
	format = string(rest[secondAt+1:])

	lineVal, convErr := strconv.ParseUint(lineStr, 10, 32)
	if convErr != nil {
		return "", 0, "", errInvalidFormatString()
	}

	return file, uint32(lineVal), format, nil
}
