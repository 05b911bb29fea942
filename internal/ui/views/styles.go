package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Block       lipgloss.Style
	ActiveBlock lipgloss.Style
	FocusBlock  lipgloss.Style
	BlockTitle  lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Highlight   lipgloss.Style
	TableHeader lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Loading     lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	block := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Block:       block,
		ActiveBlock: block.BorderForeground(lipgloss.Color("39")),
		FocusBlock:  block.BorderForeground(lipgloss.Color("220")),
		BlockTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Item:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Loading:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:        lipgloss.NewStyle().Faint(true),
	}
}
