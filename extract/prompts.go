package extract

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"text/template"

	internalstrings "github.com/amonks/taskagent/internal/strings"
)

const (
	ExtractTemplateName = "extract.tmpl"
	DedupeTemplateName  = "dedupe.tmpl"
	PolishTemplateName  = "polish.tmpl"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// ExtractData supplies values for the field extraction prompt.
type ExtractData struct {
	Today   string
	Request string
}

// DedupeData supplies values for the duplicate grouping prompt.
type DedupeData struct {
	// Tasks is an indented JSON array of {id, title, description} objects.
	Tasks string
}

// PolishData supplies values for the response rewriting prompt.
type PolishData struct {
	Result  string
	Request string
}

// Prompts loads and renders prompt templates. Files in OverrideDir take
// precedence over the embedded defaults.
type Prompts struct {
	OverrideDir string
}

// Load returns the raw template text for name.
func (p Prompts) Load(name string) (string, error) {
	if internalstrings.IsBlank(name) {
		return "", fmt.Errorf("prompt name is required")
	}

	if overridePath := p.OverridePath(name); overridePath != "" {
		if data, err := os.ReadFile(overridePath); err == nil {
			return string(data), nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt override: %w", err)
		}
	}

	data, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("read default prompt: %w", err)
	}
	return string(data), nil
}

// Render loads name and executes it with data.
func (p Prompts) Render(name string, data any) (string, error) {
	contents, err := p.Load(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(contents)
	if err != nil {
		return "", fmt.Errorf("parse prompt: %w", err)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out.String(), nil
}
