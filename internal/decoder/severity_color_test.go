package decoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

func foregroundOf(level elfmeta.Severity) lipgloss.Color {
	return ColorFor(level).GetForeground().(lipgloss.Color)
}

func TestColorForKnownLevelsAreDistinct(t *testing.T) {
	seen := map[lipgloss.Color]bool{}
	for _, level := range []elfmeta.Severity{
		elfmeta.SeverityDebug, elfmeta.SeverityInfo, elfmeta.SeverityWarning, elfmeta.SeverityError,
	} {
		c := foregroundOf(level)
		require.False(t, seen[c], "color %s reused across levels", c)
		seen[c] = true
	}
}

func TestColorForUnknownMatchesError(t *testing.T) {
	require.Equal(t, foregroundOf(elfmeta.SeverityError), foregroundOf(elfmeta.SeverityUnknown))
}

func TestPrintIncludesCallSiteLine(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Log{Seconds: 1.5, Level: elfmeta.SeverityInfo, File: "main.c", Line: 10, Message: "hello"})

	out := buf.String()
	require.Contains(t, out, "hello")
	require.Contains(t, out, "File: main.c, Line number: 10")
}

func TestPrintErrorMentionsTheFailure(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("missing log argument"))
	require.Contains(t, buf.String(), "Error parsing log: missing log argument.")
}
