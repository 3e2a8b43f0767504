// Package tabs sequences switching between mutually exclusive views.
//
// The next view is shown, and its show step awaited, before the previous view
// is hidden, so there is never a moment with nothing on screen and the old
// view is not torn down before the new one is ready.
//
// Switches are not queued. Callers must not start a switch before the
// previous one has returned; overlapping switches race and may hide the wrong
// view.
package tabs

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// ShowFunc shows a view. It may block until the view is ready.
type ShowFunc func(ctx context.Context) error

// HideFunc hides a view.
type HideFunc func()

// Tracer starts a span around a switch. trace.Recorder implements it.
type Tracer interface {
	Start(ctx context.Context, name string, attrs map[string]string) (context.Context, func(attrs map[string]string))
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ map[string]string) (context.Context, func(map[string]string)) {
	return ctx, func(map[string]string) {}
}

// Switcher remembers how to hide the view shown last.
type Switcher struct {
	mu           sync.Mutex
	hidePrevious HideFunc
}

// NewSwitcher creates a switcher with nothing shown.
func NewSwitcher() *Switcher {
	return &Switcher{}
}

// SwitchTo runs show and waits for it, then hides the previously shown view,
// then remembers hide for the next switch. If show fails, the previous view
// stays shown and remains the one hidden by the next successful switch.
func (s *Switcher) SwitchTo(ctx context.Context, show ShowFunc, hide HideFunc) error {
	if show != nil {
		if err := show(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	prev := s.hidePrevious
	s.hidePrevious = hide
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
	return nil
}

type options struct {
	log    *logrus.Entry
	tracer Tracer
}

// Option configures a Navigator.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTracer records each switch as a span.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}
