// Package observe records best-effort observability events.
//
// Every significant state transition in taskagent is reported through
// [Logger.LogEvent]. Implementations must never fail the caller: write
// errors and panics are swallowed after a warning on the structured logger.
package observe

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger receives observability events.
type Logger interface {
	LogEvent(event, component string, data map[string]any)
}

// Event is a single JSONL record.
type Event struct {
	Time      time.Time      `json:"time"`
	Name      string         `json:"name"`
	Component string         `json:"component"`
	Data      map[string]any `json:"data,omitempty"`
}

// Options configures an event log.
type Options struct {
	// Logger mirrors every event as a structured log line. Nil discards.
	Logger *slog.Logger

	// Now overrides the clock used for event timestamps.
	Now func() time.Time
}

// Log writes events to a JSONL stream and mirrors them to slog.
type Log struct {
	mu      sync.Mutex
	closer  io.Closer
	encoder *json.Encoder
	logger  *slog.Logger
	now     func() time.Time
}

// Open creates (or appends to) the JSONL event file at path.
func Open(path string, opts Options) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create events dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	log := New(file, opts)
	log.closer = file
	return log, nil
}

// New writes events to w. A nil writer only mirrors to the logger.
func New(w io.Writer, opts Options) *Log {
	log := &Log{
		logger: opts.Logger,
		now:    opts.Now,
	}
	if w != nil {
		log.encoder = json.NewEncoder(w)
	}
	if log.logger == nil {
		log.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if log.now == nil {
		log.now = time.Now
	}
	return log
}

// LogEvent records an event. It never panics and never returns an error.
func (log *Log) LogEvent(event, component string, data map[string]any) {
	if log == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.logger.Warn("event dropped", "event", event, "panic", fmt.Sprint(r))
		}
	}()

	record := Event{
		Time:      log.now().UTC(),
		Name:      event,
		Component: component,
		Data:      data,
	}

	log.logger.Info(event, "component", component, "data", data)

	log.mu.Lock()
	defer log.mu.Unlock()
	if log.encoder == nil {
		return
	}
	if err := log.encoder.Encode(record); err != nil {
		log.logger.Warn("event write failed", "event", event, "error", err)
	}
}

// Close closes the underlying file, if any.
func (log *Log) Close() error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	log.encoder = nil
	if log.closer == nil {
		return nil
	}
	err := log.closer.Close()
	log.closer = nil
	return err
}

type nopLogger struct{}

func (nopLogger) LogEvent(string, string, map[string]any) {}

// Discard returns a Logger that drops every event.
func Discard() Logger {
	return nopLogger{}
}

// Emit forwards to logger, tolerating a nil logger and panicking implementations.
func Emit(logger Logger, event, component string, data map[string]any) {
	if logger == nil {
		return
	}
	defer func() { _ = recover() }()
	logger.LogEvent(event, component, data)
}

// Recorder keeps events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// LogEvent appends the event.
func (r *Recorder) LogEvent(event, component string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Component: component, Data: data})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, event := range events {
		names[i] = event.Name
	}
	return names
}
