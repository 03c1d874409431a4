package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DrawerWidth is the outer width of the side panel
const DrawerWidth = 46

// Detail is one label/value line of a read-only drawer
type Detail struct {
	Label string
	Value string
}

// FieldState is one form input as rendered
type FieldState struct {
	Label   string
	Value   string // rendered text input when focused
	Focused bool
	Choice  bool
	Error   string
}

// DrawerState describes the open side panel
type DrawerState struct {
	Title      string
	Details    []Detail
	Fields     []FieldState
	Message    string
	Submitting bool
	Hints      string
}

// FormState is a full-screen form such as login
type FormState struct {
	Title    string
	Subtitle string
	Fields   []FieldState
	Message  string
	Busy     bool
	Hints    string
}

// ConfirmState is the delete prompt
type ConfirmState struct {
	Title       string
	Description string
	Submitting  bool
}

func (r *Renderer) renderFields(fields []FieldState, width int) []string {
	var lines []string
	for _, f := range fields {
		label := r.styles.Label.Render(f.Label)
		if f.Focused {
			label = r.styles.FieldFocused.Render("› " + f.Label)
		}
		lines = append(lines, label)

		value := f.Value
		if f.Choice {
			value = "‹ " + value + " ›"
		}
		if !f.Focused {
			value = fit(value, width)
		}
		lines = append(lines, "  "+value)
		if f.Error != "" {
			lines = append(lines, "  "+r.styles.FieldError.Render(f.Error))
		}
	}
	return lines
}

// renderDrawer draws the side panel at the given height
func (r *Renderer) renderDrawer(d *DrawerState, height int) string {
	inner := DrawerWidth - 4
	lines := []string{r.styles.DrawerTitle.Render(fit(d.Title, inner)), ""}

	for _, det := range d.Details {
		lines = append(lines, r.styles.Label.Render(det.Label))
		for _, l := range strings.Split(det.Value, "\n") {
			lines = append(lines, "  "+fit(l, inner-2))
		}
	}
	lines = append(lines, r.renderFields(d.Fields, inner-2)...)

	if d.Message != "" {
		lines = append(lines, "", r.styles.FieldError.Render(d.Message))
	}
	if d.Submitting {
		lines = append(lines, "", r.styles.StatusLoading.Render("Saving..."))
	}
	if d.Hints != "" {
		lines = append(lines, "", r.styles.Help.Render(d.Hints))
	}

	style := r.styles.Drawer.Width(DrawerWidth - 2)
	if height > 2 {
		style = style.Height(height - 2).MaxHeight(height)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderConfirm draws the delete prompt box
func (r *Renderer) renderConfirm(c *ConfirmState) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render(c.Title))
	b.WriteString("\n\n")
	b.WriteString(c.Description)
	b.WriteString("\n\n")
	if c.Submitting {
		b.WriteString(r.styles.StatusLoading.Render("Deleting..."))
	} else {
		b.WriteString(r.styles.Help.Render("y delete • n/esc cancel"))
	}
	return b.String()
}

// renderForm draws a centered full-screen form
func (r *Renderer) renderForm(f *FormState, width, height int) string {
	lines := []string{r.styles.Title.Render(f.Title)}
	if f.Subtitle != "" {
		lines = append(lines, r.styles.Dim.Render(f.Subtitle))
	}
	lines = append(lines, "")
	lines = append(lines, r.renderFields(f.Fields, 40)...)
	if f.Message != "" {
		lines = append(lines, "", r.styles.FieldError.Render(f.Message))
	}
	if f.Busy {
		lines = append(lines, "", r.styles.StatusLoading.Render("Please wait..."))
	}
	if f.Hints != "" {
		lines = append(lines, "", r.styles.Help.Render(f.Hints))
	}
	box := r.styles.LoginBox.Render(strings.Join(lines, "\n"))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
