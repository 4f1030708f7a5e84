package task

import (
	"sync"
	"time"

	"github.com/amonks/taskagent/observe"
)

const eventComponent = "task_store"

// Store owns the task collection. Tasks are handed out as copies, so
// callers never hold references into the store across calls.
type Store struct {
	mu     sync.Mutex
	tasks  []Task
	nextID int64
	now    func() time.Time
	events observe.Logger
}

// StoreOptions configures a store.
type StoreOptions struct {
	// Now overrides the clock used for CreatedAt and CompletedAt.
	Now func() time.Time

	// Events receives an event for every store operation. Nil discards.
	Events observe.Logger
}

// NewStore returns an empty store.
func NewStore(opts StoreOptions) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Events == nil {
		opts.Events = observe.Discard()
	}
	return &Store{
		nextID: 1,
		now:    opts.Now,
		events: opts.Events,
	}
}

func (s *Store) emit(event string, data map[string]any) {
	observe.Emit(s.events, event, eventComponent, data)
}

// indexOf returns the slice index of id, or -1. Callers must hold s.mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
