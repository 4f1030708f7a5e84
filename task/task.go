package task

import "time"

// Task represents a single unit of work.
type Task struct {
	// ID is assigned at creation from a monotonic counter and never reused.
	ID int64 `json:"id"`

	// Title is the short summary of the task.
	Title string `json:"title"`

	// Description provides additional context about the task.
	Description string `json:"description"`

	// Priority is the importance level.
	Priority Priority `json:"priority"`

	// Status is the current state of the task.
	Status Status `json:"status"`

	// DueDate is the calendar day the task is due (nil when unset).
	DueDate *Date `json:"due_date"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// CompletedAt is when the task was last marked completed. Moving the
	// task out of completed keeps the timestamp as completion history.
	CompletedAt *time.Time `json:"completed_at"`
}

func (t Task) clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		t.CompletedAt = &completed
	}
	return t
}

// Statistics aggregates task counts.
type Statistics struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
}

func (s Statistics) eventData() map[string]any {
	return map[string]any{
		"total":           s.Total,
		"pending":         s.Pending,
		"in_progress":     s.InProgress,
		"completed":       s.Completed,
		"high_priority":   s.HighPriority,
		"medium_priority": s.MediumPriority,
		"low_priority":    s.LowPriority,
	}
}
