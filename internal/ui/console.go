package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/taskagent/internal/markdown"
)

const (
	lineWidth      = 80
	documentIndent = 2
)

// Console writes the chat transcript for interactive sessions.
type Console struct {
	writer  io.Writer
	styler  Styler
	width   int
	started bool
}

// NewConsole builds a console for w, styling output when w is a terminal.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{
		writer: w,
		styler: NewStyler(w),
		width:  min(TerminalWidth(w, lineWidth), lineWidth),
	}
}

// Styler returns the console's styler.
func (c *Console) Styler() Styler {
	return c.styler
}

// Banner prints the application title and the integrations in use.
func (c *Console) Banner(title string, integrations []string) {
	rule := strings.Repeat("=", 60)
	lines := []string{rule, " " + c.styler.Header(title), rule}
	if len(integrations) > 0 {
		lines = append(lines, "Integrated with:")
		for _, name := range integrations {
			lines = append(lines, "  • "+name)
		}
		lines = append(lines, rule)
	}
	c.writeBlock(lines...)
}

// Prompt writes the input prompt without a trailing newline.
func (c *Console) Prompt() {
	fmt.Fprint(c.writer, c.styler.Header("[You]")+" > ")
	c.started = false
}

// Info writes a plain message block.
func (c *Console) Info(message string) {
	c.writeBlock(WrapText(message, c.width))
}

// Warn writes a highlighted warning block.
func (c *Console) Warn(message string) {
	c.writeBlock(c.styler.Warning(message))
}

// Reply writes the agent's response. Terminals get rendered markdown;
// other writers get wrapped plain text.
func (c *Console) Reply(response string) {
	body := ""
	if c.styler.Color() {
		body = markdown.Render(response, markdown.Options{Width: c.width, Indent: documentIndent, Color: true})
	}
	if body == "" {
		body = IndentBlock(WrapText(response, c.width-documentIndent), documentIndent)
	}
	c.writeBlock(c.styler.Header("Agent:"), body)
}

func (c *Console) writeBlock(lines ...string) {
	if len(lines) == 0 {
		return
	}
	if c.started {
		fmt.Fprintln(c.writer)
	}
	c.started = true
	for _, line := range lines {
		fmt.Fprintln(c.writer, line)
	}
}
