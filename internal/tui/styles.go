package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the drawer's lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Group   lipgloss.Style
	Leaf    lipgloss.Style
	Active  lipgloss.Style
	Cursor  lipgloss.Style
	Route   lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Loading lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1),
		Group: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Leaf: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),
		Route: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Loading: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("214")),
	}
}
