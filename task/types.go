// Package task implements the in-memory task list behind the assistant.
//
// The public API mirrors the operations the agent performs:
//   - Create, Update, Delete for the task lifecycle
//   - Get, List, Statistics for querying
//   - EscalateDue for the board's due-date priority sweep
package task

import (
	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/amonks/taskagent/internal/validation"
)

// Status represents the state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the task is finished.
	StatusCompleted Status = "completed"

	// StatusCanceled indicates the task was dropped. The board uses it as a soft delete.
	StatusCanceled Status = "canceled"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCanceled}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// IsOpen reports whether the task still needs attention.
func (s Status) IsOpen() bool {
	return s != StatusCompleted && s != StatusCanceled
}

// Priority represents the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns all valid priority values, lowest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// PriorityRank returns the sort rank for a priority; high sorts first.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParseStatus case-folds free text and validates it.
func ParseStatus(value string) (Status, error) {
	status := normalizeStatus(Status(value))
	if !status.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidStatus, Status(value), ValidStatuses())
	}
	return status, nil
}

// ParsePriority case-folds free text and validates it.
func ParsePriority(value string) (Priority, error) {
	priority := normalizePriority(Priority(value))
	if !priority.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, Priority(value), ValidPriorities())
	}
	return priority, nil
}

// PriorityOrDefault parses value and falls back to medium when it is empty or invalid.
func PriorityOrDefault(value string) Priority {
	if internalstrings.IsBlank(value) {
		return PriorityMedium
	}
	priority, err := ParsePriority(value)
	if err != nil {
		return PriorityMedium
	}
	return priority
}
