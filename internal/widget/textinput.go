package widget

import (
	"context"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"uikit/internal/dom"
	"uikit/internal/event"
)

// EnterFunc handles a committed text input. Enter callbacks run concurrently.
type EnterFunc func(ctx context.Context, value string) error

// TextInput turns an Enter keystroke on a text field into an Enter event.
type TextInput struct {
	el     *dom.Element
	vis    *Hideable
	log    *logrus.Entry
	tracer Tracer
	name   string
	enters *event.Registry[EnterFunc]

	mu       sync.Mutex
	listener dom.ListenerID
}

// NewTextInput wraps an existing input element. Call Init before use.
func NewTextInput(el *dom.Element, opts ...Option) *TextInput {
	o := resolveOptions("textinput", el.ID(), opts)
	return &TextInput{
		el:     el,
		vis:    NewHideable(el),
		log:    o.log,
		tracer: o.tracer,
		name:   o.name,
		enters: event.NewRegistry[EnterFunc](event.Enter),
	}
}

// CreateTextInput builds an input element from an attribute string and returns
// the initialised control.
func CreateTextInput(attrs string, opts ...Option) *TextInput {
	return NewTextInput(dom.E.Input(attrs), opts...).Init()
}

// Init sets type="text" and starts listening for keydown. Calling it again
// has no effect.
func (t *TextInput) Init() *TextInput {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener != 0 {
		return t
	}
	t.el.SetType("text")
	t.listener = t.el.AddEventListener(dom.EventKeyDown, t.keydown)
	return t
}

// Element returns the owned element.
func (t *TextInput) Element() *dom.Element { return t.el }

// Value returns the current text.
func (t *TextInput) Value() string { return t.el.Value() }

// SetValue replaces the current text.
func (t *TextInput) SetValue(v string) { t.el.SetValue(v) }

// OnEnter registers a commit callback.
func (t *TextInput) OnEnter(fn EnterFunc) event.Token { return t.enters.Add(fn) }

// Off removes a registration made with OnEnter.
func (t *TextInput) Off(tok event.Token) bool { return t.enters.Remove(tok) }

// Show restores the element's display.
func (t *TextInput) Show() { t.vis.Show() }

// Hide hides the element.
func (t *TextInput) Hide() { t.vis.Hide() }

// Close stops listening for keystrokes.
func (t *TextInput) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener != 0 {
		t.el.RemoveEventListener(t.listener)
		t.listener = 0
	}
}

func (t *TextInput) keydown(ev dom.Event) {
	if !ev.IsEnter() {
		return
	}
	if err := t.Enter(context.Background()); err != nil {
		t.log.WithError(err).Warn("enter callback failed")
	}
}

// Enter runs every Enter callback concurrently with the current value and
// waits for all of them. The joined error of the failed callbacks is returned.
func (t *TextInput) Enter(ctx context.Context) error {
	fns := t.enters.Snapshot()
	value := t.Value()
	ctx, end := t.tracer.Start(ctx, "enter", map[string]string{
		"control":   t.name,
		"callbacks": strconv.Itoa(len(fns)),
	})

	wrapped := make([]func(context.Context) (struct{}, error), len(fns))
	for i, fn := range fns {
		fn := fn
		wrapped[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx, value)
		}
	}
	err := event.Errors(event.FanOut(ctx, "enter "+t.name, wrapped))

	attrs := map[string]string{}
	if err != nil {
		attrs["error"] = err.Error()
	}
	end(attrs)
	return err
}
