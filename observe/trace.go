package observe

import (
	"time"

	"github.com/google/uuid"
)

// Tracer opens spans around a unit of work and reports them as events.
type Tracer struct {
	events Logger
	now    func() time.Time
	newID  func() string
}

// NewTracer reports span lifecycles to events.
func NewTracer(events Logger) *Tracer {
	return &Tracer{
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Span is an open trace. End must be called exactly once.
type Span struct {
	TraceID string
	Name    string
	Start   time.Time

	tracer *Tracer
	ended  bool
}

// Start opens a span and emits a trace_started event.
func (t *Tracer) Start(name string, metadata map[string]any) *Span {
	span := &Span{
		TraceID: t.newID(),
		Name:    name,
		Start:   t.now(),
		tracer:  t,
	}
	data := map[string]any{"trace_id": span.TraceID, "name": name}
	for key, value := range metadata {
		data[key] = value
	}
	Emit(t.events, "trace_started", name, data)
	return span
}

// End closes the span with its output. Later calls are ignored.
func (s *Span) End(output string) {
	if s == nil || s.ended {
		return
	}
	s.ended = true
	elapsed := s.tracer.now().Sub(s.Start)
	Emit(s.tracer.events, "trace_ended", s.Name, map[string]any{
		"trace_id":    s.TraceID,
		"output":      output,
		"duration_ms": elapsed.Milliseconds(),
	})
}
