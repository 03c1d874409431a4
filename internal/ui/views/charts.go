package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one scaled bar of a chart
type Bar struct {
	Label   string
	Value   string
	Percent string
	Width   int
}

// HomeState is the dashboard landing screen
type HomeState struct {
	Greeting string
	Loading  bool
	Spinner  string
	Err      string
	Channels []Bar
	Scope    []Bar
	Shares   []int // stacked widths of Channels
}

var shareColors = []string{"62", "39", "78", "214"}

func (r *Renderer) renderBars(title string, bars []Bar) []string {
	lines := []string{r.styles.DrawerTitle.Render(title)}
	if len(bars) == 0 {
		return append(lines, r.styles.Dim.Render("  No data"))
	}
	labelWidth := 0
	for _, b := range bars {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}
	for _, b := range bars {
		bar := r.styles.Bar.Render(strings.Repeat("█", b.Width))
		lines = append(lines, fmt.Sprintf("  %s %s %s", fit(b.Label, labelWidth), bar, r.styles.Dim.Render(b.Value+" "+b.Percent)))
	}
	return lines
}

// renderStacked draws the sales channels as one bar split by share
func (r *Renderer) renderStacked(bars []Bar, shares []int) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, w := range shares {
		color := shareColors[i%len(shareColors)]
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", w)))
	}
	var legend []string
	for i, bar := range bars {
		color := shareColors[i%len(shareColors)]
		legend = append(legend, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")+" "+bar.Label)
	}
	return b.String() + "\n  " + strings.Join(legend, "  ")
}

func (r *Renderer) renderHome(h *HomeState) []string {
	lines := []string{h.Greeting, ""}
	switch {
	case h.Loading && len(h.Channels) == 0 && len(h.Scope) == 0:
		return append(lines, r.styles.StatusLoading.Render(h.Spinner+" Loading dashboard..."))
	case h.Err != "" && len(h.Channels) == 0 && len(h.Scope) == 0:
		return append(lines, r.styles.StatusError.Render(h.Err))
	}

	lines = append(lines, r.renderBars("Sales channels", h.Channels)...)
	if len(h.Shares) > 0 {
		lines = append(lines, "", r.renderStacked(h.Channels, h.Shares))
	}
	lines = append(lines, "")
	lines = append(lines, r.renderBars("Project scope", h.Scope)...)
	if h.Err != "" {
		lines = append(lines, "", r.styles.StatusWarning.Render("Showing last known numbers: "+h.Err))
	}
	return lines
}
