package task

import (
	"testing"
	"time"

	"github.com/amonks/taskagent/observe"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// openTestStore returns an empty store with a fixed clock and an event recorder.
func openTestStore(t *testing.T) (*Store, *observe.Recorder) {
	t.Helper()

	events := &observe.Recorder{}
	store := NewStore(StoreOptions{
		Now:    func() time.Time { return testNow },
		Events: events,
	})
	return store, events
}

func mustDate(t *testing.T, value string) *Date {
	t.Helper()

	d, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return &d
}
