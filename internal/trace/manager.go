package trace

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Span is a recorded span. Duration is zero while the span is open.
type Span struct {
	TraceID    string
	SpanID     string
	ParentID   string
	Name       string
	StartTime  time.Time
	Duration   time.Duration
	Attributes map[string]string
	Children   []*Span
}

// Status of a trace.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// Trace is one interaction: a click cycle with its callbacks, an Enter commit
// or a tab switch.
type Trace struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	RootSpan  *Span
	Status    string
}

// Manager assembles span events into traces and keeps the most recent ones.
// Completed traces are exported when an exporter is configured.
type Manager struct {
	mu            sync.RWMutex
	traces        map[string]*Trace      // traceID -> Trace
	pendingSpans  map[string]*TraceEvent // spanID -> start event (waiting for end)
	orphanedSpans map[string][]*Span     // parentID -> spans started before their parent
	recentIDs     []string               // oldest first
	maxTraces     int
	onChange      func()
	exporter      *OTLPExporter
	log           *logrus.Entry
}

// NewManager creates a manager keeping at most maxTraces traces (10 when
// maxTraces <= 0). exporter may be nil.
func NewManager(maxTraces int, exporter *OTLPExporter) *Manager {
	if maxTraces <= 0 {
		maxTraces = 10
	}
	return &Manager{
		traces:        make(map[string]*Trace),
		pendingSpans:  make(map[string]*TraceEvent),
		orphanedSpans: make(map[string][]*Span),
		recentIDs:     make([]string, 0, maxTraces),
		maxTraces:     maxTraces,
		exporter:      exporter,
		log:           logrus.WithField("component", "trace"),
	}
}

// HandleEvent records a span start or end and returns the affected trace.
// End events without a matching start are ignored.
func (m *Manager) HandleEvent(event TraceEvent) *Trace {
	m.mu.Lock()
	var (
		trace  *Trace
		export bool
	)
	switch event.Type {
	case EventSpanStart:
		trace = m.handleStartLocked(event)
	case EventSpanEnd:
		trace, export = m.handleEndLocked(event)
	}
	onChange := m.onChange
	exporter := m.exporter
	m.mu.Unlock()

	if export && exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := exporter.ExportTrace(ctx, trace); err != nil {
			m.log.WithError(err).WithField("trace_id", trace.ID).Warn("export failed")
		}
		cancel()
	}
	if trace != nil && onChange != nil {
		onChange()
	}
	return trace
}

func (m *Manager) handleStartLocked(event TraceEvent) *Trace {
	m.pendingSpans[event.SpanID] = &event

	span := &Span{
		TraceID:    event.TraceID,
		SpanID:     event.SpanID,
		ParentID:   event.ParentID,
		Name:       event.Name,
		StartTime:  event.Timestamp,
		Attributes: make(map[string]string, len(event.Attributes)),
	}
	for k, v := range event.Attributes {
		span.Attributes[k] = v
	}

	trace, ok := m.traces[event.TraceID]
	if !ok {
		trace = &Trace{
			ID:        event.TraceID,
			StartTime: event.Timestamp,
			Status:    StatusRunning,
		}
		m.traces[event.TraceID] = trace
		m.addToRecentIDs(event.TraceID)
	}

	if event.ParentID == "" {
		trace.RootSpan = span
		trace.StartTime = event.Timestamp
		trace.Status = StatusRunning
		m.attachOrphanedChildren(span)
		return trace
	}

	if parent := findSpanByID(trace.RootSpan, event.ParentID); parent != nil {
		parent.Children = append(parent.Children, span)
	} else {
		m.orphanedSpans[event.ParentID] = append(m.orphanedSpans[event.ParentID], span)
	}
	m.attachOrphanedChildren(span)
	return trace
}

// handleEndLocked closes a span. It reports export=true when the root span of
// a trace ends.
func (m *Manager) handleEndLocked(event TraceEvent) (*Trace, bool) {
	start, ok := m.pendingSpans[event.SpanID]
	if !ok {
		return nil, false
	}
	delete(m.pendingSpans, event.SpanID)

	trace := m.traces[event.TraceID]
	if trace == nil {
		return nil, false
	}
	span := findSpanByID(trace.RootSpan, event.SpanID)
	if span == nil {
		span = m.findOrphan(event.SpanID)
	}
	if span != nil {
		span.Duration = event.Timestamp.Sub(start.Timestamp)
		for k, v := range event.Attributes {
			span.Attributes[k] = v
		}
	}

	if start.ParentID != "" {
		return trace, false
	}
	trace.EndTime = event.Timestamp
	trace.Status = StatusCompleted
	return trace, true
}

func (m *Manager) findOrphan(spanID string) *Span {
	for _, spans := range m.orphanedSpans {
		for _, s := range spans {
			if found := findSpanByID(s, spanID); found != nil {
				return found
			}
		}
	}
	return nil
}

// findSpanByID searches the tree rooted at root.
func findSpanByID(root *Span, spanID string) *Span {
	if root == nil {
		return nil
	}
	if root.SpanID == spanID {
		return root
	}
	for _, child := range root.Children {
		if found := findSpanByID(child, spanID); found != nil {
			return found
		}
	}
	return nil
}

// attachOrphanedChildren adopts spans that started before parent did.
func (m *Manager) attachOrphanedChildren(parent *Span) {
	orphans, ok := m.orphanedSpans[parent.SpanID]
	if !ok {
		return
	}
	parent.Children = append(parent.Children, orphans...)
	delete(m.orphanedSpans, parent.SpanID)
	for _, child := range orphans {
		m.attachOrphanedChildren(child)
	}
}

// addToRecentIDs appends a trace ID, evicting the oldest trace past maxTraces.
func (m *Manager) addToRecentIDs(traceID string) {
	m.recentIDs = append(m.recentIDs, traceID)
	if len(m.recentIDs) > m.maxTraces {
		oldest := m.recentIDs[0]
		m.recentIDs = m.recentIDs[1:]
		delete(m.traces, oldest)
		m.purgeTrace(oldest)
	}
}

// purgeTrace drops open and orphaned spans that belong to an evicted trace.
func (m *Manager) purgeTrace(traceID string) {
	for spanID, ev := range m.pendingSpans {
		if ev.TraceID == traceID {
			delete(m.pendingSpans, spanID)
		}
	}
	for parentID, spans := range m.orphanedSpans {
		kept := spans[:0]
		for _, s := range spans {
			if s.TraceID != traceID {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(m.orphanedSpans, parentID)
		} else {
			m.orphanedSpans[parentID] = kept
		}
	}
}

// Trace returns a trace by ID.
func (m *Manager) Trace(id string) *Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.traces[id]
}

// RecentTraces returns the kept traces, newest first.
func (m *Manager) RecentTraces() []*Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Trace, 0, len(m.recentIDs))
	for i := len(m.recentIDs) - 1; i >= 0; i-- {
		if t, ok := m.traces[m.recentIDs[i]]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot returns deep copies of up to n kept traces, newest first. The
// copies may be read while the manager keeps recording.
func (m *Manager) Snapshot(n int) []Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Trace, 0, min(n, len(m.recentIDs)))
	for i := len(m.recentIDs) - 1; i >= 0 && len(out) < n; i-- {
		t, ok := m.traces[m.recentIDs[i]]
		if !ok {
			continue
		}
		c := *t
		c.RootSpan = copySpan(t.RootSpan)
		out = append(out, c)
	}
	return out
}

func copySpan(s *Span) *Span {
	if s == nil {
		return nil
	}
	c := *s
	c.Attributes = make(map[string]string, len(s.Attributes))
	for k, v := range s.Attributes {
		c.Attributes[k] = v
	}
	c.Children = make([]*Span, len(s.Children))
	for i, child := range s.Children {
		c.Children[i] = copySpan(child)
	}
	return &c
}

// Summary is a copy of the headline facts of a completed trace, safe to read
// while the manager keeps recording.
type Summary struct {
	Name      string
	Control   string
	Children  int
	Duration  time.Duration
	Outcome   string
	Error     string
	Completed time.Time
}

// LastSummary summarizes the newest completed trace.
func (m *Manager) LastSummary() (Summary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.recentIDs) - 1; i >= 0; i-- {
		t, ok := m.traces[m.recentIDs[i]]
		if !ok || t.Status != StatusCompleted || t.RootSpan == nil {
			continue
		}
		root := t.RootSpan
		return Summary{
			Name:      root.Name,
			Control:   root.Attributes["control"],
			Children:  len(root.Children),
			Duration:  root.Duration,
			Outcome:   root.Attributes["outcome"],
			Error:     root.Attributes["error"],
			Completed: t.EndTime,
		}, true
	}
	return Summary{}, false
}

// SetOnChange sets a callback run after every recorded event. It is called
// without the manager lock held.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Shutdown flushes and closes the exporter.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	exporter := m.exporter
	m.mu.Unlock()
	return exporter.Shutdown(ctx)
}
