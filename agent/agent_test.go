package agent

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

func newTestAgent(t *testing.T, model *scriptedModel, polish bool) (*Agent, *task.Store, *observe.Recorder) {
	t.Helper()
	events := &observe.Recorder{}
	store := newTestStore(t, events)
	opts := Options{
		Store:  store,
		Polish: polish,
		Events: events,
		Now:    testClock,
	}
	if model != nil {
		opts.Completer = model
	}
	return New(opts), store, events
}

func TestProcessRequestWithoutModel(t *testing.T) {
	a, store, _ := newTestAgent(t, nil, true)
	ctx := context.Background()

	got := a.ProcessRequest(ctx, "create a task to buy milk")
	if !strings.HasPrefix(got, "Task created successfully!\nID: 1\nTitle: Untitled Task") {
		t.Errorf("unexpected reply:\n%s", got)
	}
	if got := a.ProcessRequest(ctx, "list my tasks"); !strings.HasPrefix(got, "Found 1 task(s):") {
		t.Errorf("unexpected reply:\n%s", got)
	}
	if got := a.ProcessRequest(ctx, "hello"); got != msgHelp {
		t.Errorf("unexpected reply:\n%s", got)
	}
	if len(store.List(task.ListFilter{})) != 1 {
		t.Error("expected exactly one task")
	}
}

func TestProcessRequestBlank(t *testing.T) {
	a, _, events := newTestAgent(t, nil, false)
	before := len(events.Events())
	if got := a.ProcessRequest(context.Background(), "   "); got != "" {
		t.Errorf("expected empty reply, got %q", got)
	}
	if len(events.Events()) != before {
		t.Error("expected blank input not to log")
	}
}

func TestProcessRequestDueTodayIsHigh(t *testing.T) {
	model := (&scriptedModel{}).
		on(`Request: "add report due today"`, `{"title": "Report", "priority": "low", "due_date": "2025-03-10"}`)
	a, store, _ := newTestAgent(t, model, false)

	a.ProcessRequest(context.Background(), "add report due today")
	created, ok := store.Get(1)
	if !ok {
		t.Fatal("expected task")
	}
	if created.Priority != task.PriorityHigh {
		t.Errorf("expected high priority, got %q", created.Priority)
	}
}

func TestProcessRequestDuplicateScenario(t *testing.T) {
	model := (&scriptedModel{}).
		on(`Request: "add buy milk"`, `{"title": "Buy milk", "priority": "low"}`).
		on(`Request: "add finish course tomorrow"`, `{"title": "Finish course", "due_date": "2025-03-11"}`).
		on(`Request: "add get course certificate"`, `{"title": "Get course certificate"}`).
		on("identify duplicates", `{"2": [3]}`)
	a, store, _ := newTestAgent(t, model, false)
	ctx := context.Background()

	for _, request := range []string{"add buy milk", "add finish course tomorrow", "add get course certificate"} {
		a.ProcessRequest(ctx, request)
	}
	got := a.ProcessRequest(ctx, "remove duplicate tasks")
	if !strings.HasPrefix(got, "Removed 1 duplicates:") {
		t.Errorf("unexpected reply:\n%s", got)
	}

	var titles []string
	for _, remaining := range store.List(task.ListFilter{}) {
		titles = append(titles, remaining.Title)
	}
	if !slices.Equal(titles, []string{"Buy milk", "Finish course"}) {
		t.Errorf("unexpected remaining tasks %v", titles)
	}
	finish, _ := store.Get(2)
	if finish.Priority != task.PriorityMedium {
		t.Errorf("expected tomorrow's task to stay medium, got %q", finish.Priority)
	}
}

func TestProcessRequestPolish(t *testing.T) {
	model := (&scriptedModel{}).
		on("provide a friendly, natural response", "You have no tasks yet!")
	a, _, _ := newTestAgent(t, model, true)

	if got := a.ProcessRequest(context.Background(), "list tasks"); got != "You have no tasks yet!" {
		t.Errorf("expected polished reply, got %q", got)
	}
	prompt := model.prompts[len(model.prompts)-1]
	if !strings.Contains(prompt, "No tasks found.") || !strings.Contains(prompt, "list tasks") {
		t.Errorf("expected result and request in polish prompt:\n%s", prompt)
	}
}

func TestProcessRequestPolishFallback(t *testing.T) {
	tests := map[string]*scriptedModel{
		"error": (&scriptedModel{}).fail("friendly, natural response", errors.New("timeout")),
		"blank": (&scriptedModel{}).on("friendly, natural response", "  \n"),
	}
	for name, model := range tests {
		a, _, events := newTestAgent(t, model, true)
		if got := a.ProcessRequest(context.Background(), "list tasks"); got != "No tasks found." {
			t.Errorf("%s: expected unpolished reply, got %q", name, got)
		}
		if !slices.Contains(events.Names(), "response_polish_skipped") {
			t.Errorf("%s: expected skip event, got %v", name, events.Names())
		}
	}
}

func TestProcessRequestPolishDisabled(t *testing.T) {
	model := &scriptedModel{}
	a, _, _ := newTestAgent(t, model, false)
	if got := a.ProcessRequest(context.Background(), "list tasks"); got != "No tasks found." {
		t.Errorf("unexpected reply %q", got)
	}
	if len(model.prompts) != 0 {
		t.Errorf("expected no model calls, got %d", len(model.prompts))
	}
}

type panickingModel struct{}

func (panickingModel) Complete(context.Context, string) (string, error) {
	panic("model exploded")
}

func TestProcessRequestRecovers(t *testing.T) {
	events := &observe.Recorder{}
	a := New(Options{
		Store:     newTestStore(t, events),
		Completer: panickingModel{},
		Events:    events,
		Now:       testClock,
	})

	got := a.ProcessRequest(context.Background(), "create a task")
	if got != "I encountered an error: model exploded" {
		t.Errorf("unexpected reply %q", got)
	}
	names := events.Names()
	if !slices.Contains(names, "task_processing_failed") || !slices.Contains(names, "trace_ended") {
		t.Errorf("expected failure and trace end events, got %v", names)
	}

	// The agent stays usable after a recovered panic.
	if got := a.ProcessRequest(context.Background(), "hello"); got != msgHelp {
		t.Errorf("unexpected reply after recovery %q", got)
	}
}

func TestProcessRequestEvents(t *testing.T) {
	a, _, events := newTestAgent(t, nil, false)
	a.ProcessRequest(context.Background(), "stats")

	want := []string{
		"agent_initialized",
		"trace_started",
		"task_processing_started",
		"task_statistics_generated",
		"trace_ended",
		"task_processing_completed",
	}
	if got := events.Names(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
