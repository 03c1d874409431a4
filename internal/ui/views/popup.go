package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders a popup centered on top of a greyed out copy of
// the main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	base := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	out := make([]string, len(base))
	for i, plain := range base {
		out[i] = grey(plain)
	}

	// Splice the popup lines over the plain base lines
	for i, line := range strings.Split(styledPopup, "\n") {
		row := y + i
		if row >= len(base) {
			break
		}
		plain := base[row]
		left := runewidth.FillRight(runewidth.Truncate(plain, x, ""), x)
		rest := ""
		if runewidth.StringWidth(plain) > x+modalW {
			rest = truncateLeft(plain, x+modalW)
		}
		out[row] = grey(left) + line + grey(rest)
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func grey(s string) string {
	if s == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(s)
}

// truncateLeft drops the first n cells of a plain string
func truncateLeft(s string, n int) string {
	w := 0
	for i, r := range s {
		if w >= n {
			return s[i:]
		}
		w += runewidth.RuneWidth(r)
	}
	return ""
}
