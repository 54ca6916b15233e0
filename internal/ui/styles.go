package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the picker
type Styles struct {
	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Cursor        lipgloss.Style
	Option        lipgloss.Style
	Active        lipgloss.Style
	Match         lipgloss.Style
	ActiveMatch   lipgloss.Style
	Description   lipgloss.Style
	Disabled      lipgloss.Style
	Check         lipgloss.Style
	Chip          lipgloss.Style
	Remote        lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	Help          lipgloss.Style
	Scroll        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Option:        lipgloss.NewStyle(),
		Active:        lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Match:         lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ActiveMatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
		Description:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Disabled:      lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Check:         lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Chip:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("60")).Padding(0, 1),
		Remote:        lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:          lipgloss.NewStyle().Faint(true),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
