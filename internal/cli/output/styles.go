package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Name    lipgloss.Style

	Input  lipgloss.Style
	Output lipgloss.Style
	Inout  lipgloss.Style
}

// DefaultStyles returns the standard terminal palette.
func DefaultStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).MarginBottom(1),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),

		Input:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Output: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Inout:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Direction picks the style for a port direction name.
func (s *Styles) Direction(dir string) lipgloss.Style {
	switch dir {
	case "input":
		return s.Input
	case "output":
		return s.Output
	case "inout":
		return s.Inout
	}
	return s.Muted
}
