package decoder

import (
	"strings"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

// leb128Codec implements the newer wire dialect, where every integer
// argument (and the header's timestamp and string pointer) is LEB128
// encoded regardless of its C type. Length modifiers (ll, l, hh, h) no
// longer select a byte width — they are accepted only so the specifier
// table still performs the same longest-prefix match as the typed dialect.
type leb128Codec struct{}

func newLEB128Codec() *leb128Codec {
	return &leb128Codec{}
}

func (l *leb128Codec) ReadHeader(c *Cursor) (timestamp uint64, strPtr uint64, err error) {
	timestamp, err = c.ReadULEB128()
	if err != nil {
		return 0, 0, errInvalidLogMessage()
	}
	strPtr, err = c.ReadULEB128()
	if err != nil {
		return 0, 0, errInvalidLogMessage()
	}
	return timestamp, strPtr, nil
}

func (l *leb128Codec) FormatMessage(meta *elfmeta.ElfMetadata, format string, args *Cursor) (string, error) {
	return formatWithTable(l.table(), format, args, meta)
}

func (l *leb128Codec) table() []specEntry {
	signed := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		v, err := args.ReadSLEB128()
		if err != nil {
			return err
		}
		writeSigned(out, v)
		return nil
	}
	unsigned := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		v, err := args.ReadULEB128()
		if err != nil {
			return err
		}
		writeUnsigned(out, v)
		return nil
	}
	octal := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		v, err := args.ReadULEB128()
		if err != nil {
			return err
		}
		writeOctal(out, v)
		return nil
	}
	hex := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		v, err := args.ReadULEB128()
		if err != nil {
			return err
		}
		writeHex(out, v)
		return nil
	}
	pointer := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		v, err := args.ReadULEB128()
		if err != nil {
			return err
		}
		writePointer(out, v)
		return nil
	}
	userString := func(out *strings.Builder, args *Cursor, meta *elfmeta.ElfMetadata) error {
		ptr, err := args.ReadULEB128()
		if err != nil {
			return err
		}
		s, err := meta.Strings.UserString(int(ptr))
		if err != nil {
			return err
		}
		out.WriteString(s)
		return nil
	}
	str := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		s, err := args.ReadCString()
		if err != nil {
			return err
		}
		out.WriteString(s)
		return nil
	}
	literalPercent := func(out *strings.Builder, _ *Cursor, _ *elfmeta.ElfMetadata) error {
		out.WriteByte('%')
		return nil
	}

	return []specEntry{
		{"%hhd", signed}, {"%hhu", unsigned}, {"%hho", octal}, {"%hhx", hex},
		{"%lld", signed}, {"%llu", unsigned}, {"%llo", octal}, {"%llx", hex},
		{"%hd", signed}, {"%hu", unsigned}, {"%ho", octal}, {"%hx", hex},
		{"%ld", signed}, {"%lu", unsigned}, {"%lo", octal}, {"%lx", hex},
		{"%d", signed}, {"%u", unsigned}, {"%o", octal}, {"%x", hex},
		{"%p", pointer},
		{"%k", userString},
		{"%s", str},
		{"%%", literalPercent},
	}
}
