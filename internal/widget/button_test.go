package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uikit/internal/dom"
	"uikit/internal/event"
)

// recorder collects emitted signals in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func record(t *testing.T, b *Button) *recorder {
	t.Helper()
	r := &recorder{}
	for _, k := range []event.Kind{event.Enable, event.Disable, event.Hover, event.Down, event.Up, event.Leave} {
		k := k
		_, err := b.On(k, func() { r.add(k.String()) })
		require.NoError(t, err)
	}
	return r
}

func newButton(t *testing.T, opts ...Option) (*Button, *recorder) {
	t.Helper()
	b := NewButton(dom.E.Button(`id="save"`, dom.E.Text("Save")), opts...)
	r := record(t, b)
	b.Init()
	return b, r
}

func TestButton_InitAttachesFiveListeners(t *testing.T) {
	b, r := newButton(t)

	assert.True(t, b.Enabled())
	assert.Equal(t, 5, b.Element().ListenerCount(""))
	for _, name := range []string{dom.EventClick, dom.EventMouseEnter, dom.EventMouseDown, dom.EventMouseUp, dom.EventMouseLeave} {
		assert.Equal(t, 1, b.Element().ListenerCount(name), name)
	}
	assert.Equal(t, "button", b.Element().Type())
	assert.Equal(t, "pointer", b.Element().Style("cursor"))
	assert.Equal(t, []string{"enable"}, r.list())
	assert.Equal(t, "save", b.Name())
}

func TestButton_InitTwiceIsNoop(t *testing.T) {
	b, r := newButton(t)
	b.Init()
	assert.Equal(t, 5, b.Element().ListenerCount(""))
	assert.Equal(t, []string{"enable"}, r.list())
}

func TestButton_EnableWhileEnabledDoesNotDoubleAttach(t *testing.T) {
	b, r := newButton(t)
	b.Enable()
	b.Enable()
	assert.Equal(t, 5, b.Element().ListenerCount(""))
	assert.Equal(t, []string{"enable"}, r.list())
}

func TestButton_DisableIsIdempotent(t *testing.T) {
	b, r := newButton(t)
	r.reset()

	b.Disable()
	b.Disable()

	assert.False(t, b.Enabled())
	assert.Equal(t, 0, b.Element().ListenerCount(""))
	assert.True(t, b.Element().Disabled())
	assert.Equal(t, CursorNotAllowed, b.Element().Style("cursor"))
	assert.Equal(t, []string{"disable"}, r.list())

	b.Enable()
	assert.True(t, b.Enabled())
	assert.False(t, b.Element().Disabled())
	assert.Equal(t, "pointer", b.Element().Style("cursor"))
}

func TestButton_RestoresOriginalCursor(t *testing.T) {
	b := NewButton(dom.E.Button(`style="cursor: crosshair"`)).Init()
	assert.Equal(t, "crosshair", b.Element().Style("cursor"))
	b.Disable()
	assert.Equal(t, CursorNotAllowed, b.Element().Style("cursor"))
	b.Enable()
	assert.Equal(t, "crosshair", b.Element().Style("cursor"))
}

func TestButton_DisabledForWholeClickCycle(t *testing.T) {
	b, _ := newButton(t)

	var mu sync.Mutex
	var observed []bool
	for i := 0; i < 3; i++ {
		delay := time.Duration(i*10) * time.Millisecond
		b.OnClick(Void(func(context.Context) error {
			time.Sleep(delay)
			mu.Lock()
			observed = append(observed, b.Enabled() || !b.Element().Disabled())
			mu.Unlock()
			return nil
		}))
	}

	b.TriggerClick()

	assert.Equal(t, []bool{false, false, false}, observed)
	assert.True(t, b.Enabled())
	assert.Equal(t, 1, b.ClickCount())
}

func TestButton_ClickCallbacksRunConcurrently(t *testing.T) {
	b, _ := newButton(t)
	var started sync.WaitGroup
	started.Add(2)
	for i := 0; i < 2; i++ {
		b.OnClick(Void(func(context.Context) error {
			started.Done()
			started.Wait()
			return nil
		}))
	}

	done := make(chan struct{})
	go func() {
		b.TriggerClick()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("click callbacks were not run concurrently")
	}
}

func TestButton_ClickSequenceOfEvents(t *testing.T) {
	b, r := newButton(t)
	b.OnClick(Void(func(context.Context) error { return nil }))
	r.reset()

	b.TriggerClick()
	triggered := r.list()

	r.reset()
	b.Element().Dispatch(dom.Event{Type: dom.EventClick})
	genuine := r.list()

	assert.Equal(t, []string{"disable", "enable"}, triggered)
	assert.Equal(t, genuine, triggered)
	assert.Equal(t, 2, b.ClickCount())
}

func TestButton_NoReentrantClick(t *testing.T) {
	b, _ := newButton(t)
	b.OnClick(Void(func(context.Context) error {
		b.TriggerClick()
		b.Element().Dispatch(dom.Event{Type: dom.EventClick})
		return nil
	}))

	b.TriggerClick()
	assert.Equal(t, 1, b.ClickCount())
	assert.True(t, b.Enabled())
}

func TestButton_ReenablePolicy_ErrorStillReenables(t *testing.T) {
	b, _ := newButton(t, WithPolicy(ReenablePolicy{}))
	boom := errors.New("boom")
	b.OnClick(Void(func(context.Context) error { return boom }))
	b.OnClick(StayDisabledIf(func(context.Context) (bool, error) { return true, nil }))

	var afterErrs []error
	b.OnAfterClick(func(err error) { afterErrs = append(afterErrs, err) })

	b.TriggerClick()

	assert.True(t, b.Enabled())
	require.Len(t, afterErrs, 1)
	assert.ErrorIs(t, afterErrs[0], boom)
}

func TestButton_ReenablePolicy_PanicStillReenables(t *testing.T) {
	b, _ := newButton(t, WithPolicy(ReenablePolicy{}))
	b.OnClick(Void(func(context.Context) error { panic("bad handler") }))

	var afterErrs []error
	b.OnAfterClick(func(err error) { afterErrs = append(afterErrs, err) })

	b.TriggerClick()

	assert.True(t, b.Enabled())
	require.Len(t, afterErrs, 1)
	var perr *event.PanicError
	assert.ErrorAs(t, afterErrs[0], &perr)
}

func TestButton_AfterClickNilOnSuccess(t *testing.T) {
	b, _ := newButton(t)
	b.OnClick(Void(func(context.Context) error { return nil }))
	calls := 0
	b.OnAfterClick(func(err error) {
		calls++
		assert.NoError(t, err)
	})
	b.TriggerClick()
	assert.Equal(t, 1, calls)
}

func TestButton_VotePolicy(t *testing.T) {
	tests := []struct {
		name    string
		votes   []Vote
		enabled bool
	}{
		{"any true wins", []Vote{KeepDisabled, KeepEnabled, NoOpinion}, false},
		{"false and void", []Vote{KeepEnabled, NoOpinion}, true},
		{"no callbacks", nil, true},
		{"all void", []Vote{NoOpinion, NoOpinion}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, r := newButton(t)
			for _, v := range tt.votes {
				v := v
				b.OnClick(func(context.Context) (Vote, error) { return v, nil })
			}
			r.reset()

			b.TriggerClick()

			assert.Equal(t, tt.enabled, b.Enabled())
			if tt.enabled {
				assert.Equal(t, []string{"disable", "enable"}, r.list())
			} else {
				assert.Equal(t, []string{"disable"}, r.list())
				assert.Equal(t, 0, b.Element().ListenerCount(""))
			}
		})
	}
}

func TestButton_VotePolicy_FailedCallbackHasNoOpinion(t *testing.T) {
	b, _ := newButton(t)
	b.OnClick(func(context.Context) (Vote, error) { return KeepDisabled, errors.New("x") })
	b.TriggerClick()
	assert.True(t, b.Enabled())
}

func TestButton_StayDisabledThenEnableExternally(t *testing.T) {
	b, _ := newButton(t)
	b.OnClick(StayDisabledIf(func(context.Context) (bool, error) { return true, nil }))
	b.TriggerClick()
	require.False(t, b.Enabled())

	b.TriggerClick()
	assert.Equal(t, 1, b.ClickCount(), "disabled button ignores clicks")

	b.Enable()
	assert.True(t, b.Enabled())
}

func TestButton_ForceDisableSurvivesClickCycle(t *testing.T) {
	b, _ := newButton(t)
	b.OnClick(Void(func(context.Context) error {
		b.ForceDisable()
		b.Restore() // ignored until the cycle ends
		b.ForceDisable()
		return nil
	}))

	b.TriggerClick()
	assert.False(t, b.Enabled())
	assert.True(t, b.ForceDisabled())

	b.Enable()
	assert.False(t, b.Enabled(), "Enable is a no-op while force-disabled")

	b.Restore()
	assert.True(t, b.Enabled())
	assert.False(t, b.ForceDisabled())
}

func TestButton_EnableDuringClickCycleDefersToOutcome(t *testing.T) {
	b, r := newButton(t)
	started := make(chan struct{})
	release := make(chan struct{})
	b.OnClick(StayDisabledIf(func(context.Context) (bool, error) {
		close(started)
		<-release
		return true, nil
	}))
	r.reset()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.TriggerClick()
	}()
	<-started

	b.Enable()
	assert.False(t, b.Enabled())
	assert.Zero(t, b.Element().ListenerCount(""))

	close(release)
	<-done
	assert.False(t, b.Enabled())
	assert.Equal(t, []string{"disable"}, r.list())

	b.Enable()
	assert.True(t, b.Enabled())
}

func TestButton_PointerEvents(t *testing.T) {
	b, r := newButton(t)
	r.reset()
	el := b.Element()

	el.Dispatch(dom.Event{Type: dom.EventMouseEnter})
	el.Dispatch(dom.Event{Type: dom.EventMouseDown})
	el.Dispatch(dom.Event{Type: dom.EventMouseUp})
	el.Dispatch(dom.Event{Type: dom.EventMouseLeave})

	assert.Equal(t, []string{"hover", "hover", "down", "up", "up", "leave"}, r.list())
}

func TestButton_PointerEventsIgnoredWhileDisabled(t *testing.T) {
	b, r := newButton(t)
	b.Disable()
	r.reset()
	b.Element().Dispatch(dom.Event{Type: dom.EventMouseDown})
	assert.Empty(t, r.list())
}

func TestButton_OnRejectsTypedKinds(t *testing.T) {
	b, _ := newButton(t)
	_, err := b.On(event.Click, func() {})
	assert.Error(t, err)
	_, err = b.On(event.AfterClick, func() {})
	assert.Error(t, err)
}

func TestButton_OffRemovesClickCallback(t *testing.T) {
	b, _ := newButton(t)
	n := 0
	tok := b.OnClick(Void(func(context.Context) error { n++; return nil }))
	require.True(t, b.Off(tok))
	b.TriggerClick()
	assert.Equal(t, 0, n)
}

func TestButton_ShowHideIndependentOfEnabled(t *testing.T) {
	b := NewButton(dom.E.Button(`style="display: inline-flex"`)).Init()
	b.Hide()
	assert.True(t, b.Enabled())
	assert.False(t, b.Element().Rendered())
	b.Show()
	assert.Equal(t, "inline-flex", b.Element().Style("display"))
}

func TestButton_Close(t *testing.T) {
	b, _ := newButton(t)
	b.Close()
	assert.Equal(t, 0, b.Element().ListenerCount(""))
	b.Enable()
	assert.False(t, b.Enabled())
}

func TestCreateButton(t *testing.T) {
	b := CreateButton(`class="primary"`, []*dom.Element{dom.E.Text("Go")})
	assert.True(t, b.Enabled())
	assert.Equal(t, "Go", b.Element().TextContent())
	assert.Equal(t, "button", b.Name())
}

type fakeTracer struct {
	mu    sync.Mutex
	spans []string
	ended []map[string]string
}

func (f *fakeTracer) Start(ctx context.Context, name string, _ map[string]string) (context.Context, func(map[string]string)) {
	f.mu.Lock()
	f.spans = append(f.spans, name)
	f.mu.Unlock()
	return ctx, func(attrs map[string]string) {
		f.mu.Lock()
		f.ended = append(f.ended, attrs)
		f.mu.Unlock()
	}
}

func TestButton_TracesClickAndCallbacks(t *testing.T) {
	tr := &fakeTracer{}
	b, _ := newButton(t, WithTracer(tr))
	b.OnClick(Void(func(context.Context) error { return nil }))
	b.OnClick(Void(func(context.Context) error { return nil }))

	b.TriggerClick()

	assert.ElementsMatch(t, []string{"click", "click callback", "click callback"}, tr.spans)
	require.Len(t, tr.ended, 3)
	assert.Equal(t, "reenable", tr.ended[2]["outcome"])
}
