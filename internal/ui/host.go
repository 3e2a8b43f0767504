package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"uikit/internal/dom"
	"uikit/internal/tabs"
	"uikit/internal/trace"
)

// RefreshMsg asks the host to re-read the tree. Send it with
// tea.Program.Send when controls change outside the host, for example when a
// click cycle finishes.
type RefreshMsg struct{}

// StatusMsg replaces the status line. An empty Text falls back to the
// summary of the last traced interaction.
type StatusMsg struct {
	Text string
	Err  bool
}

// Host is a tea.Model rendering root. Tabs come from nav; the page of a tab
// is expected to hide itself when the tab is hidden.
type Host struct {
	root      *dom.Element
	nav       *tabs.Navigator
	traces    *trace.Manager
	traceView *TraceView
	styles    Styles
	keys      KeyMap
	help      help.Model
	focus     FocusRing
	log       *logrus.Entry
	title     string

	width, height int
	hovered       *dom.Element
	pressed       *dom.Element
	zones         []zone
	status        StatusMsg
	switching     bool
}

var _ tea.Model = (*Host)(nil)

// HostOption configures a Host.
type HostOption func(*Host)

// WithTraces shows a summary of the last interaction and enables the trace
// panel.
func WithTraces(m *trace.Manager) HostOption {
	return func(h *Host) { h.traces = m }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) HostOption {
	return func(h *Host) { h.keys = k }
}

// WithLogger sets the host logger.
func WithLogger(l *logrus.Entry) HostOption {
	return func(h *Host) { h.log = l }
}

// WithTitle sets the line shown above the tab bar.
func WithTitle(title string) HostOption {
	return func(h *Host) { h.title = title }
}

// NewHost creates a host for root. nav may be nil for a single page.
func NewHost(root *dom.Element, nav *tabs.Navigator, styles Styles, opts ...HostOption) *Host {
	h := &Host{
		root:   root,
		nav:    nav,
		styles: styles,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		log:    logrus.WithField("component", "ui"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.traceView = NewTraceView(h.traces, styles)
	h.focus.OnChange = func(from, to *dom.Element) {
		h.log.WithFields(logrus.Fields{"from": describe(from), "to": describe(to)}).Debug("focus")
	}
	return h
}

// Init implements tea.Model.
func (h *Host) Init() tea.Cmd {
	h.focus.Sync(h.root)
	return nil
}

// Update implements tea.Model.
func (h *Host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height
		h.help.Width = msg.Width
		h.traceView.SetSize(msg.Width, max(msg.Height/3, 5))
		return h, nil
	case tabSwitchedMsg:
		return h, h.tabSwitched(msg)
	case RefreshMsg:
		h.focus.Sync(h.root)
		h.traceView.Refresh()
		return h, nil
	case StatusMsg:
		h.status = msg
		h.focus.Sync(h.root)
		h.traceView.Refresh()
		return h, nil
	case tea.KeyMsg:
		return h, h.handleKey(msg)
	case tea.MouseMsg:
		return h, h.handleMouse(msg)
	}
	return h, nil
}

func (h *Host) handleKey(msg tea.KeyMsg) tea.Cmd {
	focused := h.focus.Current()
	if focused != nil && isTextInput(focused) && editText(focused, msg) {
		return nil
	}

	switch {
	case key.Matches(msg, h.keys.Quit):
		return tea.Quit
	case key.Matches(msg, h.keys.Help):
		h.help.ShowAll = !h.help.ShowAll
	case key.Matches(msg, h.keys.Traces):
		h.traceView.Toggle()
	case key.Matches(msg, h.keys.Next):
		h.focus.Next()
	case key.Matches(msg, h.keys.Prev):
		h.focus.Prev()
	case key.Matches(msg, h.keys.NextTab):
		return h.cycleTab(1)
	case key.Matches(msg, h.keys.PrevTab):
		return h.cycleTab(-1)
	case key.Matches(msg, h.keys.Activate):
		return h.activate(focused)
	default:
		return h.traceView.Update(msg)
	}
	return nil
}

// editText applies typing keys to a text input and reports whether msg was
// consumed.
func editText(el *dom.Element, msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		el.SetValue(el.Value() + string(msg.Runes))
	case tea.KeySpace:
		el.SetValue(el.Value() + " ")
	case tea.KeyBackspace:
		v := []rune(el.Value())
		if len(v) > 0 {
			el.SetValue(string(v[:len(v)-1]))
		}
	default:
		return false
	}
	return true
}

// activate presses a button or commits a text input.
func (h *Host) activate(el *dom.Element) tea.Cmd {
	if el == nil || !el.Rendered() {
		return nil
	}
	if isTextInput(el) {
		return dispatchAsync(func() {
			el.Dispatch(dom.Event{Type: dom.EventKeyDown, Key: "Enter", KeyCode: dom.KeyCodeEnter})
		})
	}
	el.Dispatch(dom.Event{Type: dom.EventMouseDown})
	el.Dispatch(dom.Event{Type: dom.EventMouseUp})
	return dispatchAsync(el.Click)
}

func (h *Host) handleMouse(msg tea.MouseMsg) tea.Cmd {
	target := h.at(msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		h.hover(target)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		h.hover(target)
		h.pressed = target
		if target == nil {
			return nil
		}
		h.focus.Focus(target)
		target.Dispatch(dom.Event{Type: dom.EventMouseDown})
	case tea.MouseActionRelease:
		pressed := h.pressed
		h.pressed = nil
		if pressed == nil {
			return nil
		}
		pressed.Dispatch(dom.Event{Type: dom.EventMouseUp})
		if pressed == target && !isTextInput(target) {
			return dispatchAsync(target.Click)
		}
	}
	return nil
}

// hover moves the pointer onto target, dispatching leave and enter events.
func (h *Host) hover(target *dom.Element) {
	if target == h.hovered {
		return
	}
	if h.hovered != nil {
		h.hovered.Dispatch(dom.Event{Type: dom.EventMouseLeave})
	}
	h.hovered = target
	if target != nil {
		target.Dispatch(dom.Event{Type: dom.EventMouseEnter})
	}
}

// tabSwitchedMsg reports the end of a switch started by showTab.
type tabSwitchedMsg struct {
	name string
	err  error
}

// cycleTab shows the tab delta positions away from the current one. Tab keys
// are ignored while a switch is in flight, which keeps switches serialized.
func (h *Host) cycleTab(delta int) tea.Cmd {
	if h.nav == nil || h.switching {
		return nil
	}
	names := h.nav.Names()
	if len(names) == 0 {
		return nil
	}
	idx := 0
	for i, n := range names {
		if n == h.nav.Current() {
			idx = i
		}
	}
	next := names[((idx+delta)%len(names)+len(names))%len(names)]
	return h.showTab(next)
}

// showTab runs the switch off the update loop, since a tab's show step may
// block until its view is ready.
func (h *Host) showTab(name string) tea.Cmd {
	h.switching = true
	nav := h.nav
	return func() tea.Msg {
		return tabSwitchedMsg{name: name, err: nav.ShowByName(context.Background(), name)}
	}
}

func (h *Host) tabSwitched(msg tabSwitchedMsg) tea.Cmd {
	h.switching = false
	if msg.err != nil {
		h.log.WithError(msg.err).WithField("tab", msg.name).Warn("switch failed")
		h.status = StatusMsg{Text: msg.err.Error(), Err: true}
		return nil
	}
	h.hovered, h.pressed = nil, nil
	h.focus.Sync(h.root)
	return nil
}

// at maps a screen row to the control drawn there by the last View.
func (h *Host) at(y int) *dom.Element {
	r := renderer{zones: h.zones}
	return r.at(y)
}

// View implements tea.Model.
func (h *Host) View() string {
	var sections []string
	if h.title != "" {
		sections = append(sections, h.styles.Status.Bold(true).Render(h.title))
	}
	if bar := h.tabBar(); bar != "" {
		sections = append(sections, bar)
	}
	top := 0
	for _, s := range sections {
		top += lipgloss.Height(s)
	}

	r := renderer{
		styles:  h.styles,
		width:   h.width,
		focused: h.focus.Current(),
		hovered: h.hovered,
		pressed: h.pressed,
	}
	body := r.render(h.root, top)
	h.zones = r.zones
	sections = append(sections, body)

	if panel := h.traceView.View(); panel != "" {
		sections = append(sections, panel)
	}
	if line := h.statusLine(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, h.help.View(h.keys))
	return strings.Join(sections, "\n")
}

func (h *Host) tabBar() string {
	if h.nav == nil {
		return ""
	}
	names := h.nav.Names()
	if len(names) == 0 {
		return ""
	}
	current := h.nav.Current()
	rendered := make([]string, len(names))
	for i, n := range names {
		if n == current {
			rendered[i] = h.styles.TabActive.Render(n)
		} else {
			rendered[i] = h.styles.TabInactive.Render(n)
		}
	}
	return h.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (h *Host) statusLine() string {
	if h.status.Text != "" {
		if h.status.Err {
			return h.styles.Error.Render(h.status.Text)
		}
		return h.styles.Status.Render(h.status.Text)
	}
	if h.traces == nil {
		return ""
	}
	s, ok := h.traces.LastSummary()
	if !ok {
		return ""
	}
	parts := []string{s.Name}
	if s.Control != "" {
		parts = append(parts, s.Control)
	}
	if s.Outcome != "" {
		parts = append(parts, s.Outcome)
	}
	parts = append(parts, formatDuration(s.Duration, trace.StatusCompleted))
	line := strings.Join(parts, " · ")
	if s.Error != "" {
		return h.styles.Error.Render(line + " · " + s.Error)
	}
	return h.styles.Muted.Render(line)
}

func dispatchAsync(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return RefreshMsg{}
	}
}

func isTextInput(el *dom.Element) bool {
	return el != nil && (el.Tag() == "input" || el.Tag() == "textarea")
}

func describe(el *dom.Element) string {
	if el == nil {
		return ""
	}
	if id := el.ID(); id != "" {
		return el.Tag() + "#" + id
	}
	return el.Tag()
}
