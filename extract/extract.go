// Package extract turns free-text task requests into structured fields
// using a language model.
package extract

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/taskagent/llm"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

const eventComponent = "field_extractor"

// Fields holds the task attributes found in a request. Zero values mean the
// request did not specify the attribute.
type Fields struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	TaskID      int64
}

// IsEmpty reports whether no field was extracted.
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

// Extractor asks a model to pull task fields out of a request.
type Extractor struct {
	// Completer generates the JSON. A nil Completer extracts nothing.
	Completer llm.Completer

	// Prompts locates the extraction template.
	Prompts Prompts

	// Now supplies the date used to resolve relative due dates.
	Now func() time.Time

	// Events receives extraction failures. Nil discards.
	Events observe.Logger
}

// Extract returns the fields found in request. It never fails: model errors
// and unparseable output both produce empty Fields.
func (e *Extractor) Extract(ctx context.Context, request string) Fields {
	if e == nil || e.Completer == nil {
		return Fields{}
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	prompt, err := e.Prompts.Render(ExtractTemplateName, ExtractData{
		Today:   now().Format(task.DateLayout),
		Request: request,
	})
	if err != nil {
		e.fail("render", err)
		return Fields{}
	}

	raw, err := e.Completer.Complete(ctx, prompt)
	if err != nil {
		e.fail("complete", err)
		return Fields{}
	}

	fields, err := Parse(raw)
	if err != nil {
		e.fail("parse", err)
		return Fields{}
	}
	return fields
}

func (e *Extractor) fail(stage string, err error) {
	observe.Emit(e.Events, "field_extraction_failed", eventComponent, map[string]any{
		"stage": stage,
		"error": err.Error(),
	})
}

// Parse decodes model output into Fields. Values of the wrong type are
// ignored rather than rejected; task_id may be a number or a numeric string.
func Parse(raw string) (Fields, error) {
	data, err := CleanJSON(raw)
	if err != nil {
		return Fields{}, err
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return Fields{}, err
	}

	return Fields{
		Title:       stringValue(values["title"]),
		Description: stringValue(values["description"]),
		Priority:    stringValue(values["priority"]),
		Status:      stringValue(values["status"]),
		DueDate:     stringValue(values["due_date"]),
		TaskID:      ParseID(values["task_id"]),
	}, nil
}

func stringValue(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// ParseID reads a positive task id from a decoded JSON value. Numbers and
// numeric strings (optionally prefixed with '#') are accepted; anything else is 0.
func ParseID(value any) int64 {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
			return 0
		}
		return int64(v)
	case string:
		id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(v), "#"), 10, 64)
		if err != nil || id <= 0 {
			return 0
		}
		return id
	default:
		return 0
	}
}
