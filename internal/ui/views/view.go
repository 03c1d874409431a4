package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	User       string
	Nav        []string
	ActiveNav  int
	Indicators []string
	List       *ListState
	Home       *HomeState
	Drawer     *DrawerState
	Confirm    *ConfirmState
	Form       *FormState // login and reset screens replace everything else
	Toasts     []string
	HelpLine   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// BodyHeight is how many lines the list body may use on a screen of the
// given height: everything but the title, nav, help and toast lines
func BodyHeight(height int) int {
	return height - navRow - 4
}

// VisibleRows is how many table rows fit under the header
func VisibleRows(height int) int {
	// tabs, search, header, blank, pagination
	rows := BodyHeight(height) - 5
	if rows < 1 {
		return 1
	}
	return rows
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}

	if state.Form != nil {
		form := r.renderForm(state.Form, width, state.Height-1)
		return form + "\n" + r.renderFooter(state, width)
	}

	content := []string{r.renderTitle(state, width), r.renderNav(state.Nav, state.ActiveNav)}

	var body []string
	switch {
	case state.List != nil:
		body = r.renderList(state.List)
	case state.Home != nil:
		body = r.renderHome(state.Home)
	}

	bodyHeight := BodyHeight(state.Height)
	if bodyHeight < 1 {
		bodyHeight = len(body)
	}
	for len(body) < bodyHeight {
		body = append(body, "")
	}
	if len(body) > bodyHeight {
		body = body[:bodyHeight]
	}

	bodyStr := strings.Join(body, "\n")
	if state.Drawer != nil {
		listWidth := width - 2 - DrawerWidth
		if listWidth < 20 {
			listWidth = 20
		}
		left := lipgloss.NewStyle().Width(listWidth).MaxWidth(listWidth).Render(bodyStr)
		bodyStr = lipgloss.JoinHorizontal(lipgloss.Top, left, r.renderDrawer(state.Drawer, bodyHeight))
	}
	content = append(content, bodyStr, "", r.renderFooter(state, width))

	final := r.styles.Main.MaxHeight(state.Height).Render(strings.Join(content, "\n"))

	if state.Confirm != nil {
		return r.popupRender.RenderPopupOverlay(final, r.renderConfirm(state.Confirm), state.Height, width, r.styles.PopupBox)
	}
	return final
}

// renderTitle draws the logo with the indicators and user right-aligned
func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("staffdash")

	var right []string
	if len(state.Indicators) > 0 {
		right = append(right, r.styles.StatusRefreshing.Render(strings.Join(state.Indicators, " | ")))
	}
	if state.User != "" {
		right = append(right, r.styles.Dim.Render(state.User))
	}
	if len(right) == 0 {
		return logo
	}
	rightContent := strings.Join(right, "  ")

	available := width - 2 // Account for main container padding
	padding := available - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderNav(nav []string, active int) string {
	parts := make([]string, len(nav))
	for i, n := range nav {
		if i == active {
			parts[i] = r.styles.NavActive.Render(n)
		} else {
			parts[i] = r.styles.NavInactive.Render(n)
		}
	}
	return strings.Join(parts, "")
}

// navWidths mirrors the horizontal padding of the nav styles
func navWidths(nav []string) []int {
	widths := make([]int, len(nav))
	for i, n := range nav {
		widths[i] = runewidth.StringWidth(n) + 2
	}
	return widths
}

// renderFooter draws the toasts, newest last, above the key hints
func (r *Renderer) renderFooter(state ViewState, width int) string {
	help := r.styles.Help.Render(state.HelpLine)
	if len(state.Toasts) == 0 {
		return help
	}
	toast := r.styles.Toast.Render(fit(state.Toasts[len(state.Toasts)-1], width-8))
	return toast + "\n" + help
}
