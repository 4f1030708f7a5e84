package agent

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/amonks/taskagent/extract"
	"github.com/amonks/taskagent/integration"
	"github.com/amonks/taskagent/intent"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

func newTestExecutor(t *testing.T) (*Executor, *observe.Recorder) {
	t.Helper()
	events := &observe.Recorder{}
	return &Executor{
		Store:  newTestStore(t, events),
		Events: events,
		Now:    testClock,
	}, events
}

func TestExecuteCreateDefaults(t *testing.T) {
	e, _ := newTestExecutor(t)

	got := e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{}, "create a task")
	want := "Task created successfully!\nID: 1\nTitle: Untitled Task\nPriority: medium\nStatus: pending"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestExecuteCreateInvalidPriorityFallsBack(t *testing.T) {
	e, _ := newTestExecutor(t)

	e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{Title: "x", Priority: "urgent"}, "")
	created, _ := e.Store.Get(1)
	if created.Priority != task.PriorityMedium {
		t.Errorf("expected medium, got %q", created.Priority)
	}
}

func TestExecuteLongTitles(t *testing.T) {
	e, _ := newTestExecutor(t)
	ctx := context.Background()

	long := strings.Repeat("a", 501)
	got := e.Execute(ctx, intent.CategoryCreate, extract.Fields{Title: long}, "")
	if !strings.HasPrefix(got, "Task created successfully!") {
		t.Fatalf("expected long title to be created, got %q", got)
	}
	created, ok := e.Store.Get(1)
	if !ok || created.Title != long {
		t.Fatalf("expected stored title of %d bytes, got %d", len(long), len(created.Title))
	}

	longer := strings.Repeat("b", 900)
	got = e.Execute(ctx, intent.CategoryUpdate, extract.Fields{TaskID: 1, Title: longer}, "")
	if !strings.HasPrefix(got, "Task 1 updated successfully!") {
		t.Fatalf("expected long title update to succeed, got %q", got)
	}
	updated, _ := e.Store.Get(1)
	if updated.Title != longer {
		t.Errorf("expected updated title of %d bytes, got %d", len(longer), len(updated.Title))
	}
}

func TestExecuteCreateEscalation(t *testing.T) {
	tests := []struct {
		due  string
		want task.Priority
	}{
		{"2025-03-10", task.PriorityHigh},
		{"2025-03-11", task.PriorityLow},
		{"2025-03-09", task.PriorityLow},
		{"2025-04-01", task.PriorityLow},
	}

	for _, tt := range tests {
		e, _ := newTestExecutor(t)
		e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{Title: "t", Priority: "low", DueDate: tt.due}, "")
		created, ok := e.Store.Get(1)
		if !ok {
			t.Fatalf("due %s: expected task to be created", tt.due)
		}
		if created.Priority != tt.want {
			t.Errorf("due %s: expected %q, got %q", tt.due, tt.want, created.Priority)
		}
		if created.DueDate == nil || created.DueDate.String() != tt.due {
			t.Errorf("due %s: unexpected due date %v", tt.due, created.DueDate)
		}
	}
}

func TestExecuteCreateInvalidDueDate(t *testing.T) {
	e, _ := newTestExecutor(t)

	got := e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{Title: "t", DueDate: "next friday"}, "")
	if !strings.Contains(got, `Warning: ignored due date "next friday"`) {
		t.Errorf("expected warning, got:\n%s", got)
	}
	created, _ := e.Store.Get(1)
	if created.DueDate != nil {
		t.Errorf("expected no due date, got %v", created.DueDate)
	}
}

func TestExecuteCreateIntegrations(t *testing.T) {
	e, _ := newTestExecutor(t)
	calendar := &fakeCalendar{result: integration.Success("evt-1")}
	notes := &fakeNotes{result: integration.Failure(errors.New("notion down"))}
	e.Calendar = calendar
	e.Notes = notes

	got := e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{Title: "Dentist", DueDate: "2025-03-12"}, "")
	for _, line := range []string{
		"Due: 2025-03-12",
		"Calendar event created: evt-1",
		"Warning: could not save to note database: notion down",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("expected %q in:\n%s", line, got)
		}
	}
	if len(calendar.events) != 1 || len(notes.pages) != 1 {
		t.Errorf("expected one call to each integration, got %d and %d", len(calendar.events), len(notes.pages))
	}
	if _, ok := e.Store.Get(1); !ok {
		t.Error("expected task to survive integration failure")
	}
}

func TestExecuteCreateSkipsCalendarWithoutDueDate(t *testing.T) {
	e, _ := newTestExecutor(t)
	calendar := &fakeCalendar{result: integration.Success("evt")}
	notes := &fakeNotes{result: integration.Success("page-1")}
	e.Calendar = calendar
	e.Notes = notes

	got := e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{Title: "x"}, "")
	if len(calendar.events) != 0 {
		t.Error("expected calendar to be skipped")
	}
	if !strings.Contains(got, "Saved to note database: page-1") {
		t.Errorf("expected note database line, got:\n%s", got)
	}
}

func TestExecuteList(t *testing.T) {
	e, _ := newTestExecutor(t)
	ctx := context.Background()

	if got := e.Execute(ctx, intent.CategoryList, extract.Fields{}, "list tasks"); got != "No tasks found." {
		t.Errorf("expected empty message, got %q", got)
	}

	e.Store.Create("Buy milk", task.CreateOptions{Priority: task.PriorityLow, Description: "2%"})
	e.Store.Create("Report", task.CreateOptions{DueDate: &task.Date{Year: 2025, Month: 3, Day: 12}})
	e.Store.Update(2, task.UpdateOptions{Status: task.StatusCompleted})

	got := e.Execute(ctx, intent.CategoryList, extract.Fields{}, "list tasks")
	want := "Found 2 task(s):\n\n" +
		"• ID 1: Buy milk (pending, low priority)\n  Description: 2%\n\n" +
		"• ID 2: Report (completed, medium priority)\n  Due: 2025-03-12\n\n"
	if got != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, got)
	}

	got = e.Execute(ctx, intent.CategoryList, extract.Fields{}, "show completed tasks")
	if !strings.HasPrefix(got, "Found 1 task(s):") || !strings.Contains(got, "Report") {
		t.Errorf("expected completed filter, got:\n%s", got)
	}
}

func TestStatusMentioned(t *testing.T) {
	tests := map[string]task.Status{
		"show tasks in progress":    task.StatusInProgress,
		"list pending":              task.StatusPending,
		"show completed":            task.StatusCompleted,
		"list cancelled tasks":      task.StatusCanceled,
		"show everything":           "",
		"list in_progress, pending": task.StatusInProgress,
	}
	for text, want := range tests {
		if got := statusMentioned(text); got != want {
			t.Errorf("statusMentioned(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestExecuteUpdate(t *testing.T) {
	e, _ := newTestExecutor(t)
	ctx := context.Background()
	e.Store.Create("Buy milk", task.CreateOptions{})

	got := e.Execute(ctx, intent.CategoryUpdate, extract.Fields{TaskID: 1, Status: "Completed"}, "")
	want := "Task 1 updated successfully!\nTitle: Buy milk\nStatus: completed\nPriority: medium"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}

	got = e.Execute(ctx, intent.CategoryUpdate, extract.Fields{Title: "BUY MILK", Priority: "high"}, "")
	if !strings.Contains(got, "Priority: high") || !strings.Contains(got, "Title: BUY MILK") {
		t.Errorf("expected title match update, got:\n%s", got)
	}

	if got := e.Execute(ctx, intent.CategoryUpdate, extract.Fields{TaskID: 9}, ""); got != msgTaskNotFound {
		t.Errorf("expected not found, got %q", got)
	}
	if got := e.Execute(ctx, intent.CategoryUpdate, extract.Fields{}, ""); got != msgTaskNotFound {
		t.Errorf("expected not found without id or title, got %q", got)
	}
}

func TestExecuteUpdateInvalidStatus(t *testing.T) {
	e, events := newTestExecutor(t)
	e.Store.Create("x", task.CreateOptions{})

	got := e.Execute(context.Background(), intent.CategoryUpdate, extract.Fields{TaskID: 1, Status: "done"}, "")
	if !strings.HasPrefix(got, "Error executing action: invalid status") {
		t.Errorf("unexpected result %q", got)
	}
	if names := events.Names(); names[len(names)-1] != "action_execution_failed" {
		t.Errorf("expected failure event, got %v", names)
	}
	unchanged, _ := e.Store.Get(1)
	if unchanged.Status != task.StatusPending {
		t.Errorf("expected status unchanged, got %q", unchanged.Status)
	}
}

func TestExecuteDelete(t *testing.T) {
	e, _ := newTestExecutor(t)
	ctx := context.Background()
	e.Store.Create("Buy milk", task.CreateOptions{})
	e.Store.Create("Call mom", task.CreateOptions{})

	if got := e.Execute(ctx, intent.CategoryDelete, extract.Fields{Title: "call mom"}, ""); got != "Task 2 deleted successfully!" {
		t.Errorf("unexpected result %q", got)
	}
	if got := e.Execute(ctx, intent.CategoryDelete, extract.Fields{TaskID: 2}, ""); got != msgTaskNotFound {
		t.Errorf("expected not found, got %q", got)
	}
	if remaining := e.Store.List(task.ListFilter{}); len(remaining) != 1 || remaining[0].ID != 1 {
		t.Errorf("unexpected remaining tasks %+v", remaining)
	}
}

func TestExecuteStatisticsEmpty(t *testing.T) {
	e, _ := newTestExecutor(t)

	got := e.Execute(context.Background(), intent.CategoryStatistics, extract.Fields{}, "stats")
	want := "Task Statistics:\n" +
		"• Total Tasks: 0\n" +
		"• Pending: 0\n" +
		"• In Progress: 0\n" +
		"• Completed: 0\n" +
		"• High Priority: 0\n" +
		"• Medium Priority: 0\n" +
		"• Low Priority: 0"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestExecuteGeneral(t *testing.T) {
	e, _ := newTestExecutor(t)
	if got := e.Execute(context.Background(), intent.CategoryGeneral, extract.Fields{}, "hi"); got != msgHelp {
		t.Errorf("expected help message, got %q", got)
	}
}

func TestExecuteRecoversPanics(t *testing.T) {
	e, events := newTestExecutor(t)
	e.Notes = panickingNotes{}

	got := e.Execute(context.Background(), intent.CategoryCreate, extract.Fields{Title: "x"}, "")
	if got != "Error executing action: notes exploded" {
		t.Errorf("unexpected result %q", got)
	}
	if !slices.Contains(events.Names(), "action_execution_failed") {
		t.Errorf("expected failure event, got %v", events.Names())
	}
}
