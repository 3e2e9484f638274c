package decoder

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Javier-varez/Postform/internal/elfmeta"
	"github.com/Javier-varez/Postform/utils"
)

// Colors for each severity level, matched to a terminal's ANSI palette the
// same way the rest of the CLI colors its output.
var (
	debugColor   = lipgloss.Color("#228B22") // forest green
	infoColor    = lipgloss.Color("#FFD700") // yellow
	warningColor = lipgloss.Color("#FFA500") // orange
	errorColor   = lipgloss.Color("#CC3333") // red
	unknownColor = lipgloss.Color("#CC3333") // red, same as error: severity couldn't be recovered

	levelStyles = map[elfmeta.Severity]lipgloss.Style{
		elfmeta.SeverityDebug:   lipgloss.NewStyle().Foreground(debugColor).Bold(true),
		elfmeta.SeverityInfo:    lipgloss.NewStyle().Foreground(infoColor).Bold(true),
		elfmeta.SeverityWarning: lipgloss.NewStyle().Foreground(warningColor).Bold(true),
		elfmeta.SeverityError:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		elfmeta.SeverityUnknown: lipgloss.NewStyle().Foreground(unknownColor).Bold(true),
	}

	dimStyle = lipgloss.NewStyle().Faint(true)
)

// ColorFor returns the style used to render a given severity level.
func ColorFor(level elfmeta.Severity) lipgloss.Style {
	if style, ok := levelStyles[level]; ok {
		return style
	}
	return levelStyles[elfmeta.SeverityUnknown]
}

// Print writes l to w as two lines: the timestamp, colored level and
// message, followed by a dimmed call-site line.
func Print(w io.Writer, l Log) {
	level := fmt.Sprintf("%-11s", l.Level.String())
	callSite := fmt.Sprintf("└── File: %s, Line number: %d", l.File, l.Line)

	if utils.SupportsColor() {
		level = ColorFor(l.Level).Render(level)
		callSite = dimStyle.Render(callSite)
	}

	fmt.Fprintf(w, "%-12.6f %s: %s\n", l.Seconds, level, l.Message)
	fmt.Fprintln(w, callSite)
}

// PrintError reports a per-frame decode failure. The stream continues
// after one of these; only loader errors are fatal.
func PrintError(w io.Writer, err error) {
	msg := fmt.Sprintf("Error parsing log: %v.", err)
	if utils.SupportsColor() {
		msg = utils.ErrorStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}
