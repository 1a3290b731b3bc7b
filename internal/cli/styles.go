package cli

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title   lipgloss.Style
	Step    lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Subtle  lipgloss.Style
	Command lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			Bold(true),

		Step: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FAFFF")).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")),

		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			PaddingLeft(2),
	}
}

// PlainStyles renders text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Step: s, Info: s, Success: s, Warn: s, Error: s, Subtle: s, Command: s.PaddingLeft(2)}
}
