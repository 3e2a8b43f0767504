package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"uikit/internal/dom"
)

// zone is the rows a control occupies on screen, bottom exclusive.
type zone struct {
	el          *dom.Element
	top, bottom int
}

// renderer draws an element tree top to bottom and records where each
// control landed so mouse events can be mapped back to elements.
type renderer struct {
	styles  Styles
	width   int
	focused *dom.Element
	hovered *dom.Element
	pressed *dom.Element
	zones   []zone
}

// render draws el with its first row at screen row top. Elements that are
// not rendered produce "".
func (r *renderer) render(el *dom.Element, top int) string {
	if !el.IsText() && !el.Rendered() {
		return ""
	}
	switch el.Tag() {
	case "":
		text := strings.TrimSpace(el.TextContent())
		if text == "" {
			return ""
		}
		return r.styles.Text.Render(r.truncate(text, 0))
	case "button":
		s := r.buttonStyle(el)
		out := s.Render(r.truncate(el.TextContent(), s.GetHorizontalFrameSize()))
		r.record(el, top, out)
		return out
	case "input", "textarea":
		out := r.input(el)
		r.record(el, top, out)
		return out
	case "label":
		return r.styles.Muted.Render(r.truncate(el.TextContent(), 0))
	case "img", "iframe", "svg", "path":
		return ""
	}

	var parts []string
	row := top
	for _, c := range el.Children() {
		s := r.render(c, row)
		if s == "" {
			continue
		}
		parts = append(parts, s)
		row += lipgloss.Height(s)
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) buttonStyle(el *dom.Element) lipgloss.Style {
	switch {
	case el.Disabled():
		return r.styles.ButtonDisabled
	case el == r.pressed:
		return r.styles.ButtonPressed
	case el == r.focused:
		return r.styles.ButtonFocused
	case el == r.hovered:
		return r.styles.ButtonHovered
	default:
		return r.styles.Button
	}
}

func (r *renderer) input(el *dom.Element) string {
	s := r.styles.Input
	if el == r.focused {
		s = r.styles.InputFocused
	}
	value := el.Value()
	var content string
	switch {
	case value != "":
		content = value
		if el == r.focused {
			content += "▏"
		}
	case el == r.focused:
		content = "▏"
	default:
		placeholder, _ := el.Attr("placeholder")
		content = r.styles.Placeholder.Render(placeholder)
	}
	if value != "" {
		content = r.truncateLeft(content, s.GetHorizontalFrameSize())
	}
	return s.Render(content)
}

func (r *renderer) record(el *dom.Element, top int, out string) {
	r.zones = append(r.zones, zone{el: el, top: top, bottom: top + lipgloss.Height(out)})
}

// truncate fits s into the width left after frame columns.
func (r *renderer) truncate(s string, frame int) string {
	w := r.width - frame
	if r.width <= 0 || w <= 0 {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

// truncateLeft keeps the tail of s, which is where a text cursor sits.
func (r *renderer) truncateLeft(s string, frame int) string {
	w := r.width - frame
	if r.width <= 0 || w <= 0 || runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.TruncateLeft(s, runewidth.StringWidth(s)-w+1, "…")
}

// at returns the control at screen row y.
func (r *renderer) at(y int) *dom.Element {
	for _, z := range r.zones {
		if y >= z.top && y < z.bottom {
			return z.el
		}
	}
	return nil
}
