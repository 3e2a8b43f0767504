package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uikit/internal/config"
	"uikit/internal/dom"
)

func TestRenderer_ZonesFollowLayout(t *testing.T) {
	first := dom.E.Button("", dom.E.Text("First"))
	second := dom.E.Button("", dom.E.Text("Second"))
	root := dom.E.Div("", dom.E.Label("", dom.E.Text("Title")), first, second)

	r := renderer{styles: NewStyles(config.ThemeConfig{}), width: 40}
	out := r.render(root, 2)

	require.Len(t, r.zones, 2)
	h := r.zones[0].bottom - r.zones[0].top
	assert.Equal(t, 3, h)
	assert.Equal(t, 3, r.zones[0].top)
	assert.Equal(t, r.zones[0].bottom, r.zones[1].top)
	assert.Same(t, second, r.at(r.zones[1].top))
	assert.Nil(t, r.at(0))
	assert.Equal(t, 1+2*h, lipgloss.Height(out))
}

func TestRenderer_SkipsHidden(t *testing.T) {
	btn := dom.E.Button("", dom.E.Text("Gone"))
	btn.SetHidden(true)
	r := renderer{styles: NewStyles(config.ThemeConfig{})}
	assert.Empty(t, r.render(dom.E.Div("", btn), 0))
	assert.Empty(t, r.zones)
}

func TestRenderer_TruncatesWideLabels(t *testing.T) {
	label := strings.Repeat("界", 30)
	r := renderer{styles: NewStyles(config.ThemeConfig{}), width: 20}
	out := r.render(dom.E.Button("", dom.E.Text(label)), 0)
	assert.LessOrEqual(t, lipgloss.Width(out), 20)
	assert.Contains(t, out, "…")
}

func TestRenderer_InputPlaceholderAndValue(t *testing.T) {
	in := dom.E.Input(`placeholder="search"`)
	r := renderer{styles: NewStyles(config.ThemeConfig{}), width: 40}
	assert.Contains(t, r.render(in, 0), "search")

	in.SetValue("hello")
	r.focused = in
	assert.Contains(t, r.render(in, 0), "hello▏")
}
