package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amonks/taskagent/integration"
	"github.com/amonks/taskagent/llm"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestStore(t *testing.T, events observe.Logger) *task.Store {
	t.Helper()
	return task.NewStore(task.StoreOptions{Now: testClock, Events: events})
}

// scriptedModel answers prompts by the first registered substring they contain.
type scriptedModel struct {
	mu      sync.Mutex
	replies []scriptedReply
	prompts []string
}

type scriptedReply struct {
	contains string
	text     string
	err      error
}

func (m *scriptedModel) on(contains, text string) *scriptedModel {
	m.replies = append(m.replies, scriptedReply{contains: contains, text: text})
	return m
}

func (m *scriptedModel) fail(contains string, err error) *scriptedModel {
	m.replies = append(m.replies, scriptedReply{contains: contains, err: err})
	return m
}

func (m *scriptedModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	for _, reply := range m.replies {
		if strings.Contains(prompt, reply.contains) {
			return reply.text, reply.err
		}
	}
	return "", errors.New("unexpected prompt")
}

var _ llm.Completer = (*scriptedModel)(nil)

type fakeNotes struct {
	result integration.Result
	pages  []task.Task
}

func (f *fakeNotes) CreatePage(ctx context.Context, t task.Task) integration.Result {
	f.pages = append(f.pages, t)
	return f.result
}

type fakeCalendar struct {
	result integration.Result
	events []task.Task
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, t task.Task) integration.Result {
	f.events = append(f.events, t)
	return f.result
}

type panickingNotes struct{}

func (panickingNotes) CreatePage(context.Context, task.Task) integration.Result {
	panic("notes exploded")
}
