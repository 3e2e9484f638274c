package decoder

import (
	"strconv"
	"strings"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

// SpecHandler renders one matched format specifier, consuming whatever
// argument bytes it needs from args and appending the rendering to out.
type SpecHandler func(out *strings.Builder, args *Cursor, meta *elfmeta.ElfMetadata) error

// specEntry pairs a literal specifier prefix (e.g. "%lld") with its
// handler. Tables must be declared longest-prefix-first so "%lld" is tried
// before "%ld" before "%d".
type specEntry struct {
	prefix  string
	handler SpecHandler
}

// formatWithTable scans format left-to-right, copying non-'%' runs
// verbatim and dispatching to the longest matching entry in table whenever
// '%' is encountered. It is shared by both wire dialects; only the table
// contents differ.
func formatWithTable(table []specEntry, format string, args *Cursor, meta *elfmeta.ElfMetadata) (string, error) {
	var out strings.Builder
	rest := format

	for {
		pct := strings.IndexByte(rest, '%')
		if pct < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:pct])
		rest = rest[pct:]

		entry, matched := longestMatch(table, rest)
		if !matched {
			ch := rune(0)
			if len(rest) > 1 {
				ch = []rune(rest[1:])[0]
			}
			return "", errInvalidFormatSpecifier(ch)
		}

		if err := entry.handler(&out, args, meta); err != nil {
			return "", err
		}
		rest = rest[len(entry.prefix):]
	}
}

func longestMatch(table []specEntry, rest string) (specEntry, bool) {
	for _, entry := range table {
		if strings.HasPrefix(rest, entry.prefix) {
			return entry, true
		}
	}
	return specEntry{}, false
}

func writeSigned(out *strings.Builder, v int64) {
	out.WriteString(strconv.FormatInt(v, 10))
}

func writeUnsigned(out *strings.Builder, v uint64) {
	out.WriteString(strconv.FormatUint(v, 10))
}

func writeOctal(out *strings.Builder, v uint64) {
	out.WriteString(strconv.FormatUint(v, 8))
}

func writeHex(out *strings.Builder, v uint64) {
	out.WriteString(strconv.FormatUint(v, 16))
}

func writePointer(out *strings.Builder, v uint64) {
	out.WriteString("0x")
	out.WriteString(strconv.FormatUint(v, 16))
}
