package agent

import (
	"context"

	"github.com/amonks/taskagent/integration"
	"github.com/amonks/taskagent/task"
)

// NoteDatabase mirrors newly created tasks into an external note store.
type NoteDatabase interface {
	CreatePage(ctx context.Context, t task.Task) integration.Result
}

// Calendar schedules tasks that have a due date.
type Calendar interface {
	CreateEvent(ctx context.Context, t task.Task) integration.Result
}
