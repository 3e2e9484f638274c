package utils

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	CriticalColor = lipgloss.Color("#CC3333") // Dark red
)

// ErrorStyle renders fatal and per-record error output.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(CriticalColor).
	Bold(true)

var colorCapable = detectColorSupport()

func detectColorSupport() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// SupportsColor reports whether the current terminal environment looks
// capable of rendering ANSI color, used to decide whether log output
// should be styled or plain.
func SupportsColor() bool {
	return colorCapable
}
