package ui

import (
	"io"
	"os"

	"github.com/amonks/taskagent/task"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Board colors, shared by the terminal table and the web board.
const (
	ColorPending    = "#9e9e9e"
	ColorInProgress = "#2196f3"
	ColorCompleted  = "#4caf50"
	ColorCanceled   = "#ef5350"
	ColorUrgent     = "#ff4b4b"
	ColorMuted      = "#666666"
	ColorNoDueDate  = "#9c27b0"
)

// StatusColor returns the hex color for a task status.
func StatusColor(status task.Status) string {
	switch status {
	case task.StatusInProgress:
		return ColorInProgress
	case task.StatusCompleted:
		return ColorCompleted
	case task.StatusCanceled:
		return ColorCanceled
	default:
		return ColorPending
	}
}

// PriorityIcon returns the marker shown next to a priority.
func PriorityIcon(priority task.Priority) string {
	switch priority {
	case task.PriorityHigh:
		return "🔴"
	case task.PriorityMedium:
		return "🟢"
	default:
		return "🔵"
	}
}

// ColorEnabled reports whether w is a terminal that should receive ANSI
// styling. NO_COLOR disables styling everywhere.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// TerminalWidth returns the width of w, or fallback when w is not a terminal.
func TerminalWidth(w io.Writer, fallback int) int {
	file, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// Styler applies lipgloss styles when color is enabled and passes text
// through unchanged otherwise.
type Styler struct {
	color bool
}

// NewStyler returns a styler for output written to w.
func NewStyler(w io.Writer) Styler {
	return Styler{color: ColorEnabled(w)}
}

// Color reports whether the styler emits ANSI codes.
func (s Styler) Color() bool {
	return s.color
}

func (s Styler) render(style lipgloss.Style, value string) string {
	if !s.color {
		return value
	}
	return style.Render(value)
}

// Header renders a bold section label.
func (s Styler) Header(value string) string {
	return s.render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")), value)
}

// Muted renders secondary text.
func (s Styler) Muted(value string) string {
	return s.render(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)), value)
}

// Warning renders a warning line.
func (s Styler) Warning(value string) string {
	return s.render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorUrgent)), value)
}

// Status renders a status in its board color.
func (s Styler) Status(status task.Status) string {
	return s.render(lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(status))), string(status))
}

// Priority renders a priority, bold when high.
func (s Styler) Priority(priority task.Priority) string {
	style := lipgloss.NewStyle()
	if priority == task.PriorityHigh {
		style = style.Bold(true).Foreground(lipgloss.Color(ColorUrgent))
	}
	return s.render(style, string(priority))
}
