// Package age measures how long a task has been around.
package age

import "time"

// Of returns how long a task has existed. Open tasks are measured to now and
// closed tasks to completedAt. ok is false when there is nothing to measure,
// such as a canceled task that never completed.
func Of(createdAt time.Time, completedAt *time.Time, open bool, now time.Time) (time.Duration, bool) {
	if createdAt.IsZero() {
		return 0, false
	}
	end := now
	if !open {
		if completedAt == nil || completedAt.IsZero() {
			return 0, false
		}
		end = *completedAt
	}
	if end.Before(createdAt) {
		return 0, true
	}
	return end.Sub(createdAt), true
}
