package ui

import (
	"github.com/charmbracelet/lipgloss"

	"uikit/internal/config"
)

// Styles holds the lipgloss styles of every control state.
type Styles struct {
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonHovered  lipgloss.Style
	ButtonPressed  lipgloss.Style
	ButtonDisabled lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Placeholder  lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabBar      lipgloss.Style

	Text   lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
	Panel  lipgloss.Style
}

// NewStyles builds styles from theme colors. Empty colors fall back to the
// defaults in config.Default.
func NewStyles(theme config.ThemeConfig) Styles {
	def := config.Default().Theme
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(v)
	}
	accent := pick(theme.Accent, def.Accent)
	muted := pick(theme.Muted, def.Muted)
	disabled := pick(theme.Disabled, def.Disabled)
	danger := pick(theme.Error, def.Error)

	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 2)
	input := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return Styles{
		Button:        button,
		ButtonFocused: button.BorderForeground(accent).Bold(true),
		ButtonHovered: button.BorderForeground(accent),
		ButtonPressed: button.BorderForeground(accent).Reverse(true),
		ButtonDisabled: button.
			BorderForeground(disabled).
			Foreground(disabled).
			Faint(true),

		Input:        input,
		InputFocused: input.BorderForeground(accent),
		Placeholder:  lipgloss.NewStyle().Foreground(muted).Italic(true),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Underline(true).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		TabBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(muted),

		Text:   lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(muted),
		Error:  lipgloss.NewStyle().Foreground(danger),
		Status: lipgloss.NewStyle().Foreground(accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
