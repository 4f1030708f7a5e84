package task

import (
	"slices"
	"testing"
	"time"
)

func TestCreate_AssignsMonotonicIDs(t *testing.T) {
	store, _ := openTestStore(t)

	first := store.Create("first", CreateOptions{})
	second := store.Create("second", CreateOptions{})
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	if !store.Delete(second.ID) {
		t.Fatal("expected delete to succeed")
	}
	third := store.Create("third", CreateOptions{})
	if third.ID != 3 {
		t.Errorf("expected deleted ids not to be reused, got %d", third.ID)
	}
}

func TestCreate_Defaults(t *testing.T) {
	store, events := openTestStore(t)

	created := store.Create("Buy milk", CreateOptions{})
	if created.Status != StatusPending {
		t.Errorf("expected pending, got %q", created.Status)
	}
	if created.Priority != PriorityMedium {
		t.Errorf("expected medium, got %q", created.Priority)
	}
	if !created.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at %v, got %v", testNow, created.CreatedAt)
	}
	if created.DueDate != nil || created.CompletedAt != nil {
		t.Errorf("expected no due date or completion, got %+v", created)
	}
	if got := events.Names(); !slices.Equal(got, []string{"task_created"}) {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestCreate_KeepsPriorityAndDueDate(t *testing.T) {
	store, _ := openTestStore(t)

	created := store.Create("Report", CreateOptions{
		Description: "quarterly",
		Priority:    "HIGH",
		DueDate:     mustDate(t, "2025-03-20"),
	})
	if created.Priority != PriorityHigh {
		t.Errorf("expected high, got %q", created.Priority)
	}
	if created.DueDate == nil || created.DueDate.String() != "2025-03-20" {
		t.Errorf("unexpected due date %v", created.DueDate)
	}
	if created.Description != "quarterly" {
		t.Errorf("unexpected description %q", created.Description)
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	store, _ := openTestStore(t)

	a := store.Create("a", CreateOptions{})
	store.Create("b", CreateOptions{})
	c := store.Create("c", CreateOptions{})
	store.Update(a.ID, UpdateOptions{Status: StatusCompleted})
	store.Update(c.ID, UpdateOptions{Status: StatusCompleted})

	all := store.List(ListFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].Title != want {
			t.Errorf("expected insertion order, got %q at %d", all[i].Title, i)
		}
	}

	completed := store.List(ListFilter{Status: StatusCompleted})
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed tasks, got %d", len(completed))
	}
	for _, task := range completed {
		if task.Status != StatusCompleted {
			t.Errorf("unexpected status %q", task.Status)
		}
	}

	if got := store.List(ListFilter{Status: StatusInProgress}); len(got) != 0 {
		t.Errorf("expected no in-progress tasks, got %d", len(got))
	}
}

func TestList_ReturnsCopies(t *testing.T) {
	store, _ := openTestStore(t)
	store.Create("original", CreateOptions{DueDate: mustDate(t, "2025-04-01")})

	listed := store.List(ListFilter{})
	listed[0].Title = "mutated"
	listed[0].DueDate.Day = 2

	got, ok := store.Get(1)
	if !ok {
		t.Fatal("expected task 1")
	}
	if got.Title != "original" || got.DueDate.Day != 1 {
		t.Errorf("store was mutated through a listed copy: %+v", got)
	}
}

func TestGet(t *testing.T) {
	store, events := openTestStore(t)
	created := store.Create("lookup", CreateOptions{})

	got, ok := store.Get(created.ID)
	if !ok || got.Title != "lookup" {
		t.Fatalf("expected to find task, got %+v ok=%v", got, ok)
	}
	if _, ok := store.Get(99); ok {
		t.Error("expected missing id to return false")
	}
	if got := events.Names(); !slices.Equal(got, []string{"task_created", "task_retrieved"}) {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestUpdate_EmptyFieldsAreIgnored(t *testing.T) {
	store, _ := openTestStore(t)
	created := store.Create("keep me", CreateOptions{Description: "details", Priority: PriorityLow})

	updated, ok := store.Update(created.ID, UpdateOptions{Priority: PriorityHigh})
	if !ok {
		t.Fatal("expected update to succeed")
	}
	if updated.Title != "keep me" || updated.Description != "details" {
		t.Errorf("expected title and description unchanged, got %+v", updated)
	}
	if updated.Priority != PriorityHigh {
		t.Errorf("expected high, got %q", updated.Priority)
	}
	if updated.Status != StatusPending {
		t.Errorf("expected pending, got %q", updated.Status)
	}
}

func TestUpdate_CompletedAtLifecycle(t *testing.T) {
	store, _ := openTestStore(t)
	created := store.Create("finish", CreateOptions{})

	completed, _ := store.Update(created.ID, UpdateOptions{Status: StatusCompleted})
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed_at %v, got %v", testNow, completed.CompletedAt)
	}

	reopened, _ := store.Update(created.ID, UpdateOptions{Status: StatusPending})
	if reopened.Status != StatusPending {
		t.Errorf("expected pending, got %q", reopened.Status)
	}
	if reopened.CompletedAt == nil {
		t.Error("expected completed_at to survive reopening")
	}
}

func TestUpdate_Missing(t *testing.T) {
	store, events := openTestStore(t)

	if _, ok := store.Update(7, UpdateOptions{Title: "x"}); ok {
		t.Error("expected update of missing task to fail")
	}
	if got := events.Names(); len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
}

func TestDelete(t *testing.T) {
	store, _ := openTestStore(t)
	created := store.Create("gone", CreateOptions{})

	if store.Delete(42) {
		t.Error("expected delete of missing id to return false")
	}
	if !store.Delete(created.ID) {
		t.Fatal("expected delete to succeed")
	}
	if _, ok := store.Get(created.ID); ok {
		t.Error("expected task to be gone")
	}
	if store.Delete(created.ID) {
		t.Error("expected second delete to return false")
	}
}

func TestStatistics(t *testing.T) {
	store, events := openTestStore(t)

	empty := store.Statistics()
	if empty != (Statistics{}) {
		t.Errorf("expected zero statistics, got %+v", empty)
	}

	a := store.Create("a", CreateOptions{Priority: PriorityHigh})
	b := store.Create("b", CreateOptions{Priority: PriorityLow})
	store.Create("c", CreateOptions{})
	d := store.Create("d", CreateOptions{})
	store.Update(a.ID, UpdateOptions{Status: StatusCompleted})
	store.Update(b.ID, UpdateOptions{Status: StatusInProgress})
	store.Update(d.ID, UpdateOptions{Status: StatusCanceled})

	got := store.Statistics()
	want := Statistics{
		Total:          4,
		Pending:        1,
		InProgress:     1,
		Completed:      1,
		HighPriority:   1,
		MediumPriority: 2,
		LowPriority:    1,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	names := events.Names()
	if names[len(names)-1] != "task_statistics_generated" {
		t.Errorf("expected statistics event last, got %v", names)
	}
}

func TestEscalateDue(t *testing.T) {
	store, _ := openTestStore(t)

	overdue := store.Create("overdue", CreateOptions{Priority: PriorityLow, DueDate: mustDate(t, "2025-03-01")})
	today := store.Create("today", CreateOptions{DueDate: mustDate(t, "2025-03-10")})
	tomorrow := store.Create("tomorrow", CreateOptions{DueDate: mustDate(t, "2025-03-11")})
	later := store.Create("day after tomorrow", CreateOptions{DueDate: mustDate(t, "2025-03-12")})
	done := store.Create("done", CreateOptions{DueDate: mustDate(t, "2025-03-09")})
	store.Create("no date", CreateOptions{Priority: PriorityLow})
	store.Update(done.ID, UpdateOptions{Status: StatusCompleted})

	escalated := store.EscalateDue(testNow)
	var ids []int64
	for _, task := range escalated {
		ids = append(ids, task.ID)
	}
	if !slices.Equal(ids, []int64{overdue.ID, today.ID, tomorrow.ID}) {
		t.Fatalf("expected overdue, today and tomorrow escalated, got %v", ids)
	}

	got, _ := store.Get(later.ID)
	if got.Priority != PriorityMedium {
		t.Errorf("expected day after tomorrow to stay medium, got %q", got.Priority)
	}
	got, _ = store.Get(done.ID)
	if got.Priority != PriorityMedium {
		t.Errorf("expected completed task to stay medium, got %q", got.Priority)
	}

	if again := store.EscalateDue(testNow.Add(time.Hour)); len(again) != 0 {
		t.Errorf("expected second sweep to be a no-op, got %d", len(again))
	}
}

func TestEscalateDueTomorrowLateInDay(t *testing.T) {
	store, _ := openTestStore(t)
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	due := store.Create("renew permit", CreateOptions{Priority: PriorityLow, DueDate: mustDate(t, "2025-03-11")})

	escalated := store.EscalateDue(now)
	if len(escalated) != 1 || escalated[0].ID != due.ID {
		t.Fatalf("expected task due in nine hours to escalate, got %+v", escalated)
	}
	if escalated[0].Priority != PriorityHigh {
		t.Errorf("expected high priority, got %q", escalated[0].Priority)
	}
}

func TestSortByPriority(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: PriorityLow},
		{ID: 2, Priority: PriorityHigh},
		{ID: 3, Priority: PriorityMedium},
		{ID: 4, Priority: PriorityHigh},
	}
	SortByPriority(tasks)

	var ids []int64
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	if !slices.Equal(ids, []int64{2, 4, 3, 1}) {
		t.Errorf("unexpected order %v", ids)
	}
}

func TestFindByTitle(t *testing.T) {
	tasks := []Task{{ID: 1, Title: "Buy milk"}, {ID: 2, Title: "Call mom"}}

	got, ok := FindByTitle(tasks, "  call MOM ")
	if !ok || got.ID != 2 {
		t.Errorf("expected task 2, got %+v ok=%v", got, ok)
	}
	if _, ok := FindByTitle(tasks, "walk dog"); ok {
		t.Error("expected no match")
	}
}
