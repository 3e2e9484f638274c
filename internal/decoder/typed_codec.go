package decoder

import (
	"strings"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

// typedCodec implements the legacy wire dialect, where integer widths are
// selected by the target's PlatformDescriptor. Header fields are fixed: an
// 8-byte timestamp and a PtrSize-byte string pointer.
type typedCodec struct {
	platform elfmeta.PlatformDescriptor
}

func newTypedCodec(p elfmeta.PlatformDescriptor) *typedCodec {
	return &typedCodec{platform: p}
}

func (t *typedCodec) ReadHeader(c *Cursor) (timestamp uint64, strPtr uint64, err error) {
	timestamp, err = c.ReadUint(8)
	if err != nil {
		return 0, 0, errInvalidLogMessage()
	}
	strPtr, err = c.ReadUint(int(t.platform.PtrSize))
	if err != nil {
		return 0, 0, errInvalidLogMessage()
	}
	return timestamp, strPtr, nil
}

func (t *typedCodec) FormatMessage(meta *elfmeta.ElfMetadata, format string, args *Cursor) (string, error) {
	return formatWithTable(t.table(), format, args, meta)
}

// widthOf selects the byte width for a specifier's length modifier.
func (t *typedCodec) widthOf(mod string) int {
	switch mod {
	case "hh":
		return int(t.platform.CharSize)
	case "h":
		return int(t.platform.ShortSize)
	case "":
		return int(t.platform.IntSize)
	case "l":
		return int(t.platform.LongSize)
	case "ll":
		return int(t.platform.LongLongSize)
	default:
		return int(t.platform.IntSize)
	}
}

func (t *typedCodec) table() []specEntry {
	signed := func(mod string) SpecHandler {
		return func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
			v, err := args.ReadInt(t.widthOf(mod))
			if err != nil {
				return err
			}
			writeSigned(out, v)
			return nil
		}
	}
	unsigned := func(mod string) SpecHandler {
		return func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
			v, err := args.ReadUint(t.widthOf(mod))
			if err != nil {
				return err
			}
			writeUnsigned(out, v)
			return nil
		}
	}
	octal := func(mod string) SpecHandler {
		return func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
			v, err := args.ReadUint(t.widthOf(mod))
			if err != nil {
				return err
			}
			writeOctal(out, v)
			return nil
		}
	}
	hex := func(mod string) SpecHandler {
		return func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
			v, err := args.ReadUint(t.widthOf(mod))
			if err != nil {
				return err
			}
			writeHex(out, v)
			return nil
		}
	}
	pointer := func(out *strings.Builder, args *Cursor, _ *elfmeta.ElfMetadata) error {
		v, err := args.ReadUint(int(t.platform.PtrSize))
		if err != nil {
			return err
		}
		writePointer(out, v)
		return nil
	}
	userString := func(out *strings.Builder, args *Cursor, meta *elfmeta.ElfMetadata) error {
		ptr, err := args.ReadUint(int(t.platform.PtrSize))
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
		{"%hhd", signed("hh")}, {"%hhu", unsigned("hh")}, {"%hho", octal("hh")}, {"%hhx", hex("hh")},
		{"%lld", signed("ll")}, {"%llu", unsigned("ll")}, {"%llo", octal("ll")}, {"%llx", hex("ll")},
		{"%hd", signed("h")}, {"%hu", unsigned("h")}, {"%ho", octal("h")}, {"%hx", hex("h")},
		{"%ld", signed("l")}, {"%lu", unsigned("l")}, {"%lo", octal("l")}, {"%lx", hex("l")},
		{"%d", signed("")}, {"%u", unsigned("")}, {"%o", octal("")}, {"%x", hex("")},
		{"%p", pointer},
		{"%k", userString},
		{"%s", str},
		{"%%", literalPercent},
	}
}
