// Package markdown renders assistant replies for the terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// Options controls rendering.
type Options struct {
	// Width is the total line width, including Indent.
	Width int

	// Indent prefixes every rendered line with spaces.
	Indent int

	// Color selects the dark ANSI style; otherwise plain ASCII styling is used.
	Color bool
}

type renderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	width int
	color bool
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]renderer{}
)

// Render formats markdown input. It returns "" for blank input and falls
// back to the unrendered text if glamour fails.
func Render(input string, opts Options) (rendered string) {
	value := internalstrings.NormalizeNewlines(input)
	value = internalstrings.TrimTrailingNewlines(value)
	if internalstrings.IsBlank(value) {
		return ""
	}
	indent := max(opts.Indent, 0)
	renderWidth := max(opts.Width-indent, 1)

	rendered = value
	if r := markdownRenderer(rendererKey{width: renderWidth, color: opts.Color}); r != nil {
		if formatted, ok := safeRender(r, value); ok {
			rendered = formatted
		}
	}
	rendered = trimBlankLines(rendered)
	if internalstrings.IsBlank(rendered) {
		return ""
	}
	return indentBlock(rendered, indent)
}

func safeRender(r renderer, value string) (out string, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return "", false
	}
	return formatted, true
}

func markdownRenderer(key rendererKey) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[key]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	if key.color {
		style = styles.DarkStyleConfig
	}
	style.Document.Margin = uintPtr(0)
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(key.width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}

func uintPtr(v uint) *uint {
	return &v
}

// trimBlankLines drops the leading and trailing blank lines glamour pads
// documents with.
func trimBlankLines(value string) string {
	lines := strings.Split(value, "\n")
	start, end := 0, len(lines)
	for start < end && internalstrings.IsBlank(lines[start]) {
		start++
	}
	for end > start && internalstrings.IsBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func indentBlock(value string, spaces int) string {
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
