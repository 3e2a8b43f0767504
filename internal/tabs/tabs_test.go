package tabs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// slowTab records "show X start", "show X done" around a delay so the test
// can verify the previous hide only happens after the show completed.
func slowTab(l *callLog, name string) Tab {
	return Tab{
		Name: name,
		Show: func(context.Context) error {
			l.add("show " + name + " start")
			time.Sleep(10 * time.Millisecond)
			l.add("show " + name + " done")
			return nil
		},
		Hide: func() { l.add("hide " + name) },
	}
}

func TestSwitcher_ShowCompletesBeforePreviousHide(t *testing.T) {
	l := &callLog{}
	s := NewSwitcher()
	a, b := slowTab(l, "A"), slowTab(l, "B")

	require.NoError(t, s.SwitchTo(context.Background(), a.Show, a.Hide))
	require.NoError(t, s.SwitchTo(context.Background(), b.Show, b.Hide))
	require.NoError(t, s.SwitchTo(context.Background(), a.Show, a.Hide))

	assert.Equal(t, []string{
		"show A start", "show A done",
		"show B start", "show B done", "hide A",
		"show A start", "show A done", "hide B",
	}, l.list())
}

func TestSwitcher_FailedShowKeepsPrevious(t *testing.T) {
	l := &callLog{}
	s := NewSwitcher()
	a := slowTab(l, "A")
	boom := errors.New("boom")

	require.NoError(t, s.SwitchTo(context.Background(), a.Show, a.Hide))
	err := s.SwitchTo(context.Background(), func(context.Context) error { return boom }, func() { l.add("hide X") })
	assert.ErrorIs(t, err, boom)

	b := slowTab(l, "B")
	require.NoError(t, s.SwitchTo(context.Background(), b.Show, b.Hide))
	assert.Equal(t, []string{
		"show A start", "show A done",
		"show B start", "show B done", "hide A",
	}, l.list())
}

func TestSwitcher_NilShow(t *testing.T) {
	hidden := false
	s := NewSwitcher()
	require.NoError(t, s.SwitchTo(context.Background(), nil, func() { hidden = true }))
	require.NoError(t, s.SwitchTo(context.Background(), nil, nil))
	assert.True(t, hidden)
}

func TestNavigator_Scenario(t *testing.T) {
	l := &callLog{}
	n := NewNavigator()
	require.NoError(t, n.AddTabs(slowTab(l, "B")))
	require.NoError(t, n.Init(context.Background(), slowTab(l, "A")))

	assert.Equal(t, "A", n.Current())
	assert.Equal(t, []string{"show A start", "show A done"}, l.list())

	require.NoError(t, n.ShowByName(context.Background(), "B"))
	require.NoError(t, n.ShowByName(context.Background(), "A"))

	assert.Equal(t, []string{
		"show A start", "show A done",
		"show B start", "show B done", "hide A",
		"show A start", "show A done", "hide B",
	}, l.list())
	assert.Equal(t, "A", n.Current())
	assert.Equal(t, []string{"A", "B"}, n.Names())
}

func TestNavigator_UnknownTab(t *testing.T) {
	l := &callLog{}
	n := NewNavigator()
	require.NoError(t, n.Init(context.Background(), slowTab(l, "A")))

	err := n.ShowByName(context.Background(), "unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Contains(t, err.Error(), "unknown")
	assert.Equal(t, "A", n.Current())
	assert.Equal(t, []string{"show A start", "show A done"}, l.list())
}

func TestNavigator_ShowCurrentIsNoop(t *testing.T) {
	l := &callLog{}
	n := NewNavigator()
	require.NoError(t, n.Init(context.Background(), slowTab(l, "A")))
	require.NoError(t, n.ShowByName(context.Background(), "A"))
	assert.Len(t, l.list(), 2)
}

func TestNavigator_FailedShowKeepsCurrent(t *testing.T) {
	l := &callLog{}
	n := NewNavigator()
	boom := errors.New("not ready")
	require.NoError(t, n.AddTabs(Tab{
		Name: "broken",
		Show: func(context.Context) error { return boom },
		Hide: func() { l.add("hide broken") },
	}))
	require.NoError(t, n.Init(context.Background(), slowTab(l, "A")))

	err := n.ShowByName(context.Background(), "broken")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "A", n.Current())
	assert.NotContains(t, l.list(), "hide A")
}

func TestNavigator_EmptyName(t *testing.T) {
	n := NewNavigator()
	assert.Error(t, n.AddTabs(Tab{}))
}

type spanTracer struct {
	names []string
	attrs []map[string]string
}

func (s *spanTracer) Start(ctx context.Context, name string, attrs map[string]string) (context.Context, func(map[string]string)) {
	s.names = append(s.names, name)
	s.attrs = append(s.attrs, attrs)
	return ctx, func(map[string]string) {}
}

func TestNavigator_TracesSwitch(t *testing.T) {
	tr := &spanTracer{}
	l := &callLog{}
	n := NewNavigator(WithTracer(tr))
	require.NoError(t, n.AddTabs(slowTab(l, "B")))
	require.NoError(t, n.Init(context.Background(), slowTab(l, "A")))
	require.NoError(t, n.ShowByName(context.Background(), "B"))

	assert.Equal(t, []string{"switch", "switch"}, tr.names)
	assert.Equal(t, "A", tr.attrs[1]["from"])
	assert.Equal(t, "B", tr.attrs[1]["to"])
}
