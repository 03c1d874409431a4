package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	inputtypes "staffdash/internal/ui/input/types"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"Tab/Shift+Tab", "Switch between Home, Employees, Projects and Invoices"},
		{"↑/↓, j/k", "Move the cursor"},
		{"gg/G, Home/End", "First/last row of the page"},
		{"←/→, h/l", "Previous/next page"},
		{"PgUp/PgDn", "Previous/next page"},
		{"</>", "First/last page"},
		{"[/]", "Previous/next status tab"},
	}},
	{"List", []helpEntry{
		{"/", "Search"},
		{"1-9", "Sort by column, again to flip direction"},
		{"+, z", "Cycle rows per page"},
		{"Space", "Toggle checkbox"},
		{"Esc", "Clear checkboxes"},
		{"r", "Refresh"},
		{"x", "Export page (or checked rows) to XLSX"},
	}},
	{"Records", []helpEntry{
		{"Enter", "Open details"},
		{"a", "Add record (admin)"},
		{"e", "Edit record (admin)"},
		{"d", "Delete record (admin)"},
		{"v", "Show details in pager"},
		{"p", "Save invoice as PDF"},
	}},
	{"Forms", []helpEntry{
		{"Tab/↓, Shift+Tab/↑", "Next/previous field"},
		{"←/→, Space", "Change a choice"},
		{"Team", "Employees checked on the Employees list join the project form; cycle each to part-time or removed"},
		{"Enter, Ctrl+S", "Save"},
		{"Esc", "Cancel"},
	}},
	{"Mouse", []helpEntry{
		{"Click nav", "Switch view"},
		{"Click tab", "Switch status tab"},
		{"Click header", "Sort by column"},
		{"Click checkbox", "Toggle checkbox"},
		{"Click row", "Open details"},
		{"Wheel", "Move the cursor"},
	}},
	{"Other", []helpEntry{
		{"?", "Show this help"},
		{"L", "Log out"},
		{"q", "Quit"},
	}},
}

// RenderHelpContent generates help content with colors for the pager
func RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	width := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			if w := lipgloss.Width(e.keys); w > width {
				width = w
			}
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("staffdash Help"))
	help.WriteString("\n")

	for i, s := range helpSections {
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, e := range s.entries {
			pad := strings.Repeat(" ", width-lipgloss.Width(e.keys))
			help.WriteString(fmt.Sprintf("  %s%s  %s\n", keyStyle.Render(e.keys), pad, descStyle.Render(e.desc)))
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	filterStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString("\n")
	help.WriteString(filterStyle.Render("  Add, edit and delete are only offered to administrators."))
	return help.String()
}

// Footer hints per input mode, drawn with the bubbles help model
var (
	listKeys = []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "tab")),
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1-9", "sort")),
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "page")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
	adminListKeys = []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
	homeKeys = []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
	searchKeys = []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
	drawerKeys = []key.Binding{
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "pager")),
		key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
	adminDrawerKeys = []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
	pdfKeys = []key.Binding{
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
	}
	confirmKeys = []key.Binding{
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "delete")),
		key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
	}
	formKeys = []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "choose")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
	loginKeys = []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
)

// helpBindings picks the footer hints for the current mode
func helpBindings(mode inputtypes.Mode, ctx inputtypes.Context, standalone bool) []key.Binding {
	var out []key.Binding
	switch mode {
	case inputtypes.ModeSearch:
		return searchKeys
	case inputtypes.ModeConfirm:
		return confirmKeys
	case inputtypes.ModeForm:
		if standalone {
			return loginKeys
		}
		return formKeys
	case inputtypes.ModeDrawer:
		out = append(out, drawerKeys...)
		if ctx.IsAdmin() {
			out = append(out, adminDrawerKeys...)
		}
		if ctx.CanExportPDF() {
			out = append(out, pdfKeys...)
		}
		return out
	}
	if !ctx.OnList() {
		return homeKeys
	}
	out = append(out, listKeys[:len(listKeys)-2]...)
	if ctx.IsAdmin() {
		out = append(out, adminListKeys...)
	}
	return append(out, listKeys[len(listKeys)-2:]...)
}
