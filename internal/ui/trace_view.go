package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"uikit/internal/trace"
)

// TraceView lists recent interactions as span trees: one tree per click
// cycle, Enter commit or tab switch.
type TraceView struct {
	source   *trace.Manager
	styles   Styles
	viewport viewport.Model
	visible  bool
	limit    int
}

// NewTraceView creates a hidden trace view reading from m.
func NewTraceView(m *trace.Manager, styles Styles) *TraceView {
	vp := viewport.New(60, 12)
	vp.Style = styles.Panel
	return &TraceView{source: m, styles: styles, viewport: vp, limit: 10}
}

// Update scrolls the viewport.
func (v *TraceView) Update(msg tea.Msg) tea.Cmd {
	if !v.visible {
		return nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// View renders the panel, or "" when hidden.
func (v *TraceView) View() string {
	if !v.visible {
		return ""
	}
	return v.viewport.View()
}

// SetSize sets the outer size of the panel.
func (v *TraceView) SetSize(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = height
	v.Refresh()
}

// Toggle flips visibility.
func (v *TraceView) Toggle() {
	v.visible = !v.visible
	v.Refresh()
}

// Visible reports whether the panel is shown.
func (v *TraceView) Visible() bool { return v.visible }

// Refresh reloads traces from the manager.
func (v *TraceView) Refresh() {
	if !v.visible {
		return
	}
	if v.source == nil {
		v.viewport.SetContent(v.styles.Muted.Render("tracing disabled"))
		return
	}
	traces := v.source.Snapshot(v.limit)
	if len(traces) == 0 {
		v.viewport.SetContent(v.styles.Muted.Render("no interactions yet"))
		return
	}
	var lines []string
	for _, t := range traces {
		lines = append(lines, v.renderTrace(t)...)
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
}

func (v *TraceView) renderTrace(t trace.Trace) []string {
	root := t.RootSpan
	if root == nil {
		return []string{v.styles.Muted.Render(shortTraceID(t.ID) + " (waiting for root span)")}
	}

	icon := v.styles.Status.Render("✓")
	if t.Status == trace.StatusRunning {
		icon = v.styles.Muted.Render("●")
	} else if root.Attributes["error"] != "" {
		icon = v.styles.Error.Render("✗")
	}
	head := fmt.Sprintf("%s %s %s", icon, spanLabel(root), v.styles.Muted.Render(formatDuration(root.Duration, t.Status)))
	lines := []string{head}
	for i, child := range root.Children {
		lines = append(lines, v.renderSpan(child, "  ", i == len(root.Children)-1)...)
	}
	return lines
}

// renderSpan renders span and its children as a tree.
func (v *TraceView) renderSpan(span *trace.Span, prefix string, isLast bool) []string {
	connector := "├─"
	childPrefix := prefix + "│  "
	if isLast {
		connector = "└─"
		childPrefix = prefix + "   "
	}
	line := prefix + connector + " " + spanLabel(span)
	if span.Duration > 0 {
		line += " " + v.styles.Muted.Render(formatDuration(span.Duration, trace.StatusCompleted))
	}
	if errText := span.Attributes["error"]; errText != "" {
		line += " " + v.styles.Error.Render(errText)
	}
	lines := []string{line}
	for i, child := range span.Children {
		lines = append(lines, v.renderSpan(child, childPrefix, i == len(span.Children)-1)...)
	}
	return lines
}

// spanLabel names a span after the control or tab it belongs to.
func spanLabel(s *trace.Span) string {
	label := s.Name
	switch {
	case s.Attributes["control"] != "":
		label += " " + s.Attributes["control"]
	case s.Attributes["to"] != "":
		label += " " + s.Attributes["from"] + "→" + s.Attributes["to"]
	case s.Attributes["index"] != "":
		label += " #" + s.Attributes["index"]
	}
	if out := s.Attributes["outcome"]; out != "" {
		label += " " + lipgloss.NewStyle().Italic(true).Render(out)
	}
	return label
}

// formatDuration prints sub-second durations in milliseconds.
func formatDuration(d time.Duration, status string) string {
	if status == trace.StatusRunning {
		return "running"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}

// shortTraceID returns a shortened version of the trace ID for display
func shortTraceID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
