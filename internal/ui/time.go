package ui

import (
	"fmt"
	"time"

	"github.com/amonks/taskagent/task"
)

// Countdown describes the time remaining until a task's due date.
type Countdown struct {
	// Label is "Time left: 1d 2h 30m" or "Overdue".
	Label string

	// Overdue is true once the start of the due day has passed.
	Overdue bool

	// Urgent is true when less than an hour remains or the task is overdue.
	Urgent bool
}

// DueCountdown measures from now to midnight of due in now's location.
func DueCountdown(due task.Date, now time.Time) Countdown {
	remaining := due.In(now.Location()).Sub(now)
	if remaining <= 0 {
		return Countdown{Label: "Overdue", Overdue: true, Urgent: true}
	}
	return Countdown{
		Label:  "Time left: " + FormatDuration(remaining),
		Urgent: remaining < time.Hour,
	}
}

// FormatDuration formats a duration as days, hours, and minutes ("1d 2h 30m").
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	minutes := int64(duration / time.Minute)
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes%60)
}
