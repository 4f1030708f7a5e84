// Package agent answers natural-language task requests.
//
// A request is classified by [intent.Classify], enriched with fields from an
// [extract.Extractor] when the operation needs them, executed against the
// task store, and optionally rewritten by the language model into a friendlier
// reply.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amonks/taskagent/extract"
	"github.com/amonks/taskagent/intent"
	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/amonks/taskagent/llm"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

const (
	eventComponent = "task_agent"
	traceName      = "task_processing"
)

// Options configures an Agent.
type Options struct {
	Store *task.Store

	// Completer powers extraction, duplicate grouping, and polishing. Nil
	// disables all three; requests still run with empty extracted fields.
	Completer llm.Completer

	// Model names the completer's model in the initialization event.
	Model string

	// Prompts locates prompt templates.
	Prompts extract.Prompts

	// Polish rewrites executor output through the model when true.
	Polish bool

	Notes    NoteDatabase
	Calendar Calendar

	Events observe.Logger
	Now    func() time.Time
}

// Agent processes one request at a time.
type Agent struct {
	mu        sync.Mutex
	extractor *extract.Extractor
	executor  *Executor
	completer llm.Completer
	prompts   extract.Prompts
	polish    bool
	events    observe.Logger
	tracer    *observe.Tracer
}

// New returns an agent over opts.Store.
func New(opts Options) *Agent {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Events == nil {
		opts.Events = observe.Discard()
	}

	a := &Agent{
		extractor: &extract.Extractor{
			Completer: opts.Completer,
			Prompts:   opts.Prompts,
			Now:       opts.Now,
			Events:    opts.Events,
		},
		executor: &Executor{
			Store:     opts.Store,
			Completer: opts.Completer,
			Prompts:   opts.Prompts,
			Notes:     opts.Notes,
			Calendar:  opts.Calendar,
			Events:    opts.Events,
			Now:       opts.Now,
		},
		completer: opts.Completer,
		prompts:   opts.Prompts,
		polish:    opts.Polish,
		events:    opts.Events,
		tracer:    observe.NewTracer(opts.Events),
	}

	observe.Emit(a.events, "agent_initialized", eventComponent, map[string]any{
		"model":    opts.Model,
		"llm":      opts.Completer != nil,
		"polish":   a.polishing(),
		"notes":    opts.Notes != nil,
		"calendar": opts.Calendar != nil,
	})
	return a
}

func (a *Agent) polishing() bool {
	return a.polish && a.completer != nil
}

// ProcessRequest answers text. It always returns a reply; failures become
// part of the reply text. Blank input returns "".
func (a *Agent) ProcessRequest(ctx context.Context, text string) (reply string) {
	if internalstrings.IsBlank(text) {
		return ""
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	span := a.tracer.Start(traceName, map[string]any{"user_request": text, "agent": eventComponent})
	defer func() {
		if r := recover(); r != nil {
			reply = fmt.Sprintf("I encountered an error: %v", r)
			span.End(reply)
			observe.Emit(a.events, "task_processing_failed", eventComponent, map[string]any{
				"error": fmt.Sprint(r),
			})
		}
	}()

	observe.Emit(a.events, "task_processing_started", eventComponent, map[string]any{"request": text})

	category := intent.Classify(text)
	var fields extract.Fields
	if category.NeedsFields() {
		fields = a.extractor.Extract(ctx, text)
	}

	result := a.executor.Execute(ctx, category, fields, text)
	reply = a.polishReply(ctx, text, result)

	span.End(reply)
	observe.Emit(a.events, "task_processing_completed", eventComponent, map[string]any{
		"request":  text,
		"category": string(category),
		"success":  true,
	})
	return reply
}

// polishReply rewrites result through the model, falling back to result on
// any failure.
func (a *Agent) polishReply(ctx context.Context, request, result string) string {
	if !a.polishing() {
		return result
	}

	prompt, err := a.prompts.Render(extract.PolishTemplateName, extract.PolishData{
		Result:  result,
		Request: request,
	})
	if err == nil {
		var polished string
		polished, err = a.completer.Complete(ctx, prompt)
		if err == nil && !internalstrings.IsBlank(polished) {
			return polished
		}
	}

	data := map[string]any{}
	if err != nil {
		data["error"] = err.Error()
	}
	observe.Emit(a.events, "response_polish_skipped", eventComponent, data)
	return result
}
