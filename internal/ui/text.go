package ui

import (
	"strings"

	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/muesli/reflow/wordwrap"
)

// IndentBlock prefixes each line with spaces.
func IndentBlock(value string, spaces int) string {
	value = internalstrings.TrimTrailingNewlines(value)
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// WrapText word-wraps value to width, keeping existing line breaks. Lines
// that start with whitespace keep their indentation on continuation lines.
func WrapText(value string, width int) string {
	value = internalstrings.NormalizeNewlines(value)
	value = internalstrings.TrimTrailingNewlines(value)
	if width < 1 {
		return value
	}

	lines := strings.Split(value, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		wrapWidth := width - indent
		if wrapWidth < 1 || internalstrings.IsBlank(trimmed) {
			out = append(out, line)
			continue
		}
		wrapped := wordwrap.String(trimmed, wrapWidth)
		out = append(out, IndentBlock(wrapped, indent))
	}
	return strings.Join(out, "\n")
}
