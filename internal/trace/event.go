package trace

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// EventType identifies the kind of trace event
type EventType string

const (
	EventSpanStart EventType = "span_start" // Click cycle, callback or tab switch begins
	EventSpanEnd   EventType = "span_end"   // Matching span finished
)

// TraceEvent represents one edge of a span. A span with no ParentID is the
// root of its trace: one trace per click cycle, Enter commit or tab switch.
type TraceEvent struct {
	TraceID    string            `json:"trace_id"`   // Unique ID for the interaction
	SpanID     string            `json:"span_id"`    // Unique ID for this span
	ParentID   string            `json:"parent_id"`  // Parent span ID (empty for root)
	Type       EventType         `json:"type"`       // Event type
	Name       string            `json:"name"`       // "click", "click callback", "switch", ...
	Timestamp  time.Time         `json:"timestamp"`  // When the event occurred
	Attributes map[string]string `json:"attributes"` // Additional metadata
}

// NewTraceID generates a random 16-byte trace ID as hex string (32 characters)
func NewTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// NewSpanID generates a random 8-byte span ID as hex string (16 characters)
func NewSpanID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
