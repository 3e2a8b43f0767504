package trace

import (
	"context"
	"time"
)

type spanKey struct{}

type spanRef struct {
	traceID string
	spanID  string
}

// Recorder turns Start/end calls from controls into TraceEvents for a
// Manager. It implements the Tracer interfaces of packages widget and tabs.
type Recorder struct {
	manager *Manager
	now     func() time.Time
}

// NewRecorder creates a recorder feeding m.
func NewRecorder(m *Manager) *Recorder {
	return &Recorder{manager: m, now: time.Now}
}

// Start opens a span. A span started from a context carrying another span
// becomes its child; otherwise it starts a new trace. The returned function
// closes the span, merging attrs into the span's attributes.
func (r *Recorder) Start(ctx context.Context, name string, attrs map[string]string) (context.Context, func(map[string]string)) {
	ref := spanRef{spanID: NewSpanID()}
	var parentID string
	if parent, ok := ctx.Value(spanKey{}).(spanRef); ok {
		ref.traceID = parent.traceID
		parentID = parent.spanID
	} else {
		ref.traceID = NewTraceID()
	}

	r.manager.HandleEvent(TraceEvent{
		TraceID:    ref.traceID,
		SpanID:     ref.spanID,
		ParentID:   parentID,
		Type:       EventSpanStart,
		Name:       name,
		Timestamp:  r.now(),
		Attributes: attrs,
	})

	end := func(attrs map[string]string) {
		r.manager.HandleEvent(TraceEvent{
			TraceID:    ref.traceID,
			SpanID:     ref.spanID,
			ParentID:   parentID,
			Type:       EventSpanEnd,
			Name:       name,
			Timestamp:  r.now(),
			Attributes: attrs,
		})
	}
	return context.WithValue(ctx, spanKey{}, ref), end
}
