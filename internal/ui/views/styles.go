package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Confirm      lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	Filter       lipgloss.Style
	Help         lipgloss.Style
	Main         lipgloss.Style
	Highlight    lipgloss.Style
	HighlightBg  lipgloss.Style
	SelectionBg  lipgloss.Style
	Header       lipgloss.Style
	HeaderActive lipgloss.Style
	NavActive    lipgloss.Style
	NavInactive  lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Checkbox     lipgloss.Style
	Drawer       lipgloss.Style
	DrawerTitle  lipgloss.Style
	Label        lipgloss.Style
	FieldFocused lipgloss.Style
	FieldError   lipgloss.Style
	PopupBox     lipgloss.Style
	LoginBox     lipgloss.Style
	Toast        lipgloss.Style
	Bar          lipgloss.Style

	StatusError      lipgloss.Style
	StatusWarning    lipgloss.Style
	StatusLoading    lipgloss.Style
	StatusSuccess    lipgloss.Style
	StatusRefreshing lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Confirm: lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Filter:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:         lipgloss.NewStyle().Faint(true),
		Main:         lipgloss.NewStyle().Padding(0, 1),
		Highlight:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg:  lipgloss.NewStyle().Background(lipgloss.Color("238")),
		SelectionBg:  lipgloss.NewStyle().Background(lipgloss.Color("24")),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Underline(true),
		HeaderActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Underline(true),
		NavActive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		NavInactive:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		TabActive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Underline(true),
		TabInactive:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Checkbox:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Drawer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		DrawerTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		FieldFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		FieldError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2).
			Width(60),
		LoginBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3).
			Width(54),
		Toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Padding(0, 1),
		Bar: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),

		StatusError:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusRefreshing: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
	}
}

// StatusColor returns the color used for a record status label
func StatusColor(label string) string {
	switch label {
	case "Active", "Paid", "Current":
		return "78" // green
	case "On hold", "Sent":
		return "214" // yellow
	case "Inactive", "Not sent", "Past":
		return "203" // red
	case "Completed":
		return "33" // blue
	}
	return "252"
}
