package task

import (
	"sort"
	"strings"
	"time"
)

// CreateOptions configures a new task.
type CreateOptions struct {
	// Description provides additional context.
	Description string

	// Priority is stored lower-cased. Defaults to PriorityMedium when empty.
	// Callers are responsible for validating it first.
	Priority Priority

	// DueDate is the optional due day.
	DueDate *Date
}

// Create adds a new pending task and returns it.
func (s *Store) Create(title string, opts CreateOptions) Task {
	priority := normalizePriority(opts.Priority)
	if priority == "" {
		priority = PriorityMedium
	}

	s.mu.Lock()
	created := Task{
		ID:          s.nextID,
		Title:       title,
		Description: opts.Description,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if opts.DueDate != nil {
		created.DueDate = DatePtr(*opts.DueDate)
	}
	s.nextID++
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()

	s.emit("task_created", map[string]any{
		"task_id":  created.ID,
		"priority": string(created.Priority),
	})

	return created.clone()
}

// ListFilter configures which tasks to return.
type ListFilter struct {
	// Status filters by exact status match. Empty returns every task.
	Status Status
}

// List returns tasks matching the filter in insertion order.
func (s *Store) List(filter ListFilter) []Task {
	s.mu.Lock()
	result := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		result = append(result, t.clone())
	}
	s.mu.Unlock()

	s.emit("tasks_listed", map[string]any{
		"status": string(filter.Status),
		"count":  len(result),
	})

	return result
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	var found Task
	if i >= 0 {
		found = s.tasks[i].clone()
	}
	s.mu.Unlock()

	if i < 0 {
		return Task{}, false
	}
	s.emit("task_retrieved", map[string]any{"task_id": id})
	return found, true
}

// UpdateOptions configures fields to update on a task.
// Empty values mean "don't update this field", so a title or description
// cannot be cleared through Update.
type UpdateOptions struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *Date
}

// Update applies opts to the task with the given id and returns the result.
// Setting the status to completed stamps CompletedAt; other statuses leave it alone.
func (s *Store) Update(id int64, opts UpdateOptions) (Task, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, false
	}

	current := &s.tasks[i]
	if opts.Title != "" {
		current.Title = opts.Title
	}
	if opts.Description != "" {
		current.Description = opts.Description
	}
	if opts.Priority != "" {
		current.Priority = normalizePriority(opts.Priority)
	}
	if opts.DueDate != nil {
		current.DueDate = DatePtr(*opts.DueDate)
	}
	if opts.Status != "" {
		current.Status = normalizeStatus(opts.Status)
		if current.Status == StatusCompleted {
			now := s.now()
			current.CompletedAt = &now
		}
	}
	updated := current.clone()
	s.mu.Unlock()

	s.emit("task_updated", map[string]any{
		"task_id":  id,
		"status":   string(updated.Status),
		"priority": string(updated.Priority),
	})

	return updated, true
}

// Delete permanently removes the task with the given id.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		return false
	}
	s.emit("task_deleted", map[string]any{"task_id": id})
	return true
}

// Statistics counts tasks by status and priority.
func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	stats := Statistics{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case StatusPending:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusCompleted:
			stats.Completed++
		}
		switch t.Priority {
		case PriorityHigh:
			stats.HighPriority++
		case PriorityMedium:
			stats.MediumPriority++
		case PriorityLow:
			stats.LowPriority++
		}
	}
	s.mu.Unlock()

	s.emit("task_statistics_generated", stats.eventData())

	return stats
}

// EscalateDue raises open tasks that are overdue or due today or tomorrow
// to high priority and returns the tasks it changed. A task due tomorrow is
// less than a day from the start of its due day.
func (s *Store) EscalateDue(now time.Time) []Task {
	s.mu.Lock()
	var escalated []Task
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.DueDate == nil || !t.Status.IsOpen() || t.Priority == PriorityHigh {
			continue
		}
		if t.DueDate.DaysFrom(now) > 1 {
			continue
		}
		t.Priority = PriorityHigh
		escalated = append(escalated, t.clone())
	}
	s.mu.Unlock()

	for _, t := range escalated {
		s.emit("task_updated", map[string]any{
			"task_id":  t.ID,
			"status":   string(t.Status),
			"priority": string(t.Priority),
		})
	}

	return escalated
}

// SortByPriority orders tasks high to low, keeping insertion order within a level.
func SortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return PriorityRank(tasks[i].Priority) < PriorityRank(tasks[j].Priority)
	})
}

// FindByTitle returns the first task whose title matches case-insensitively.
func FindByTitle(tasks []Task, title string) (Task, bool) {
	for _, t := range tasks {
		if strings.EqualFold(strings.TrimSpace(t.Title), strings.TrimSpace(title)) {
			return t, true
		}
	}
	return Task{}, false
}
