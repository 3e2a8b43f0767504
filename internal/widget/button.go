package widget

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"uikit/internal/dom"
	"uikit/internal/event"
)

// CursorNotAllowed is the cursor shown while a button is disabled.
const CursorNotAllowed = "not-allowed"

// ClickFunc handles a click. It runs concurrently with the other registered
// ClickFuncs; its Vote is combined by the button's OutcomePolicy.
type ClickFunc func(ctx context.Context) (Vote, error)

// Void adapts a callback with no opinion on the outcome.
func Void(fn func(ctx context.Context) error) ClickFunc {
	return func(ctx context.Context) (Vote, error) {
		return NoOpinion, fn(ctx)
	}
}

// StayDisabledIf adapts a callback returning true to keep the button disabled.
func StayDisabledIf(fn func(ctx context.Context) (bool, error)) ClickFunc {
	return func(ctx context.Context) (Vote, error) {
		stay, err := fn(ctx)
		if err != nil {
			return NoOpinion, err
		}
		return VoteOf(stay), nil
	}
}

// signalKinds are the argument-less events a Button emits.
var signalKinds = map[event.Kind]bool{
	event.Enable:  true,
	event.Disable: true,
	event.Hover:   true,
	event.Down:    true,
	event.Up:      true,
	event.Leave:   true,
}

// Button is the interactive control state machine. It owns one element and is
// the only code that attaches listeners to it.
//
// A button is Enabled exactly while its five interaction listeners (click,
// mouseenter, mousedown, mouseup, mouseleave) are attached. A click disables
// it, runs every Click callback concurrently, waits for all of them and then
// lets the OutcomePolicy decide whether it re-enables.
type Button struct {
	el     *dom.Element
	vis    *Hideable
	policy OutcomePolicy
	log    *logrus.Entry
	tracer Tracer
	name   string

	signals    *event.Bus
	clicks     *event.Registry[ClickFunc]
	afterClick *event.Registry[func(error)]

	mu          sync.Mutex
	listeners   []dom.ListenerID // non-empty while enabled
	initialized bool
	closed      bool
	cursor      string
	forced      bool
	inClick     bool
	clickCount  int
}

// NewButton wraps an existing element. Call Init before use.
func NewButton(el *dom.Element, opts ...Option) *Button {
	o := resolveOptions("button", el.ID(), opts)
	return &Button{
		el:         el,
		vis:        NewHideable(el),
		policy:     o.policy,
		log:        o.log,
		tracer:     o.tracer,
		name:       o.name,
		signals:    event.NewBus(),
		clicks:     event.NewRegistry[ClickFunc](event.Click),
		afterClick: event.NewRegistry[func(error)](event.AfterClick),
	}
}

// CreateButton builds a button element from an attribute string and children
// and returns the initialised control.
func CreateButton(attrs string, children []*dom.Element, opts ...Option) *Button {
	return NewButton(dom.E.Button(attrs, children...), opts...).Init()
}

// Init fixes the element type, captures the original cursor and enables the
// button. Calling it again has no effect.
func (b *Button) Init() *Button {
	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return b
	}
	b.initialized = true
	b.el.SetType("button")
	b.cursor = b.el.Style("cursor")
	b.mu.Unlock()

	b.Enable()
	return b
}

// Element returns the owned element.
func (b *Button) Element() *dom.Element { return b.el }

// Name returns the name used in logs and spans.
func (b *Button) Name() string { return b.name }

// Policy returns the click outcome policy.
func (b *Button) Policy() OutcomePolicy { return b.policy }

// Enabled reports whether the interaction listeners are attached.
func (b *Button) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners) > 0
}

// ForceDisabled reports whether ForceDisable is in effect.
func (b *Button) ForceDisabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.forced
}

// ClickCount returns the number of click cycles started.
func (b *Button) ClickCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clickCount
}

// On registers a callback for Enable, Disable, Hover, Down, Up or Leave.
// Click and AfterClick have typed registrations (OnClick, OnAfterClick).
func (b *Button) On(k event.Kind, fn func()) (event.Token, error) {
	if !signalKinds[k] {
		return event.Token{}, fmt.Errorf("button %s: %s is not a signal event", b.name, k)
	}
	return b.signals.On(k, fn), nil
}

// OnClick registers a Click callback. Callbacks are launched in registration
// order.
func (b *Button) OnClick(fn ClickFunc) event.Token {
	return b.clicks.Add(fn)
}

// OnAfterClick registers an observer called once at the end of every click
// cycle with the joined callback error, or nil.
func (b *Button) OnAfterClick(fn func(err error)) event.Token {
	return b.afterClick.Add(fn)
}

// Off removes any registration made on this button.
func (b *Button) Off(t event.Token) bool {
	switch t.Kind {
	case event.Click:
		return b.clicks.Remove(t)
	case event.AfterClick:
		return b.afterClick.Remove(t)
	default:
		return b.signals.Off(t)
	}
}

// Enable restores the cursor, attaches the interaction listeners and emits
// Enable. It does nothing when already enabled, when force-disabled, during a
// click cycle (the cycle's outcome decides), or after Close.
func (b *Button) Enable() {
	b.mu.Lock()
	if !b.initialized || b.closed || b.forced || b.inClick || len(b.listeners) > 0 {
		b.mu.Unlock()
		return
	}
	cursor := b.cursor
	if cursor == "" {
		cursor = "pointer"
	}
	b.el.SetStyle("cursor", cursor)
	b.el.SetDisabled(false)
	b.listeners = b.attachLocked()
	b.mu.Unlock()

	b.emit(event.Enable)
}

// Disable shows the not-allowed cursor, detaches the interaction listeners and
// emits Disable. It does nothing when already disabled.
func (b *Button) Disable() {
	b.mu.Lock()
	changed := b.disableLocked()
	b.mu.Unlock()
	if changed {
		b.emit(event.Disable)
	}
}

func (b *Button) disableLocked() bool {
	if len(b.listeners) == 0 {
		return false
	}
	b.detachLocked()
	b.el.SetStyle("cursor", CursorNotAllowed)
	b.el.SetDisabled(true)
	return true
}

// ForceDisable disables the button and turns Enable into a no-op, including
// the re-enable at the end of a click cycle, until Restore is called.
func (b *Button) ForceDisable() {
	b.mu.Lock()
	b.forced = true
	b.mu.Unlock()
	b.Disable()
}

// Restore lifts ForceDisable and enables the button. While a click cycle is
// outstanding the cycle's own decision applies instead.
func (b *Button) Restore() {
	b.mu.Lock()
	b.forced = false
	inClick := b.inClick
	b.mu.Unlock()
	if !inClick {
		b.Enable()
	}
}

// TriggerClick activates the button programmatically through the same
// listener a real activation reaches. It does nothing while disabled.
func (b *Button) TriggerClick() {
	b.el.Click()
}

// Hover emits Hover.
func (b *Button) Hover() { b.emit(event.Hover) }

// Down emits Hover then Down; a press always implies hovering.
func (b *Button) Down() {
	b.Hover()
	b.emit(event.Down)
}

// Up emits Up.
func (b *Button) Up() { b.emit(event.Up) }

// Leave emits Up then Leave; leaving while pressed implies a release.
func (b *Button) Leave() {
	b.Up()
	b.emit(event.Leave)
}

// Show restores the element's display. It does not change the enabled state.
func (b *Button) Show() { b.vis.Show() }

// Hide hides the element. It does not change the enabled state.
func (b *Button) Hide() { b.vis.Hide() }

// Close detaches all listeners for teardown. The button cannot be enabled
// again.
func (b *Button) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.detachLocked()
}

func (b *Button) attachLocked() []dom.ListenerID {
	return []dom.ListenerID{
		b.el.AddEventListener(dom.EventClick, func(dom.Event) { b.click(context.Background()) }),
		b.el.AddEventListener(dom.EventMouseEnter, func(dom.Event) { b.Hover() }),
		b.el.AddEventListener(dom.EventMouseDown, func(dom.Event) { b.Down() }),
		b.el.AddEventListener(dom.EventMouseUp, func(dom.Event) { b.Up() }),
		b.el.AddEventListener(dom.EventMouseLeave, func(dom.Event) { b.Leave() }),
	}
}

func (b *Button) detachLocked() {
	for _, id := range b.listeners {
		b.el.RemoveEventListener(id)
	}
	b.listeners = nil
}

func (b *Button) emit(k event.Kind) {
	if err := b.signals.Emit(k); err != nil {
		b.log.WithError(err).WithField("event", k.String()).Warn("event callback failed")
	}
}

// click runs one click cycle. The button is disabled before any callback runs
// and stays disabled until every callback has returned. A click delivered
// after the button was disabled, e.g. from a dispatch that raced with Disable,
// is dropped.
func (b *Button) click(ctx context.Context) {
	b.mu.Lock()
	if b.inClick || !b.disableLocked() {
		b.mu.Unlock()
		return
	}
	b.inClick = true
	b.clickCount++
	b.mu.Unlock()
	b.emit(event.Disable)

	fns := b.clicks.Snapshot()
	ctx, end := b.tracer.Start(ctx, "click", map[string]string{
		"control":   b.name,
		"callbacks": strconv.Itoa(len(fns)),
		"policy":    b.policy.Name(),
	})

	outcome := Reenable
	var err error
	defer func() {
		b.mu.Lock()
		b.inClick = false
		b.mu.Unlock()
		if outcome == Reenable {
			b.Enable()
		}
		attrs := map[string]string{"outcome": outcome.String()}
		if err != nil {
			attrs["error"] = err.Error()
		}
		end(attrs)
		b.notifyAfterClick(err)
	}()

	wrapped := make([]func(context.Context) (Vote, error), len(fns))
	for i, fn := range fns {
		i, fn := i, fn
		wrapped[i] = func(ctx context.Context) (Vote, error) {
			ctx, end := b.tracer.Start(ctx, "click callback", map[string]string{
				"control": b.name,
				"index":   strconv.Itoa(i),
			})
			v, err := fn(ctx)
			attrs := map[string]string{"vote": v.String()}
			if err != nil {
				attrs["error"] = err.Error()
			}
			end(attrs)
			return v, err
		}
	}

	results := event.FanOut(ctx, "click "+b.name, wrapped)
	votes := make([]Vote, len(results))
	for i, r := range results {
		if r.Err == nil {
			votes[i] = r.Value
		}
	}
	err = event.Errors(results)
	if err != nil {
		b.log.WithError(err).Warn("click callback failed")
	}
	outcome = b.decide(votes, err)
	b.log.WithFields(logrus.Fields{
		"callbacks": len(fns),
		"outcome":   outcome.String(),
	}).Debug("click cycle finished")
}

// decide applies the policy; a panicking policy re-enables so the button is
// never stuck.
func (b *Button) decide(votes []Vote, err error) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithField("panic", r).Error("click policy panicked, re-enabling")
			out = Reenable
		}
	}()
	return b.policy.Decide(votes, err)
}

func (b *Button) notifyAfterClick(err error) {
	for _, fn := range b.afterClick.Snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.WithField("panic", r).Warn("afterClick observer panicked")
				}
			}()
			fn(err)
		}()
	}
}
