package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Screen rows of the list layout. Mouse hit testing depends on them.
const (
	titleRow    = 0
	navRow      = 1
	tabRow      = 2
	searchRow   = 3
	headerRow   = 4
	firstRow    = 5
	leftPadding = 1
	checkWidth  = 4 // "[x] "
)

// Column is one rendered header cell
type Column struct {
	Title    string
	Width    int
	Sortable bool
	Arrow    string // "↑", "↓" or "" when the column is not the sort column
	Status   bool   // cells are colored by StatusColor
}

// Row is one rendered record
type Row struct {
	Cells    []string
	Marked   bool
	Cursor   bool
	Selected bool
}

// ListState is everything needed to draw one list
type ListState struct {
	Entity     string
	Tabs       []string
	ActiveTab  int
	Columns    []Column
	Rows       []Row
	Offset     int // first visible row
	Visible    int // rows that fit on screen
	Search     string
	Searching  bool
	SearchView string // rendered text input while searching
	FirstLoad  bool   // no data yet, show the spinner
	Refreshing bool   // data shown, newer request in flight
	Spinner    string
	Stale      string // last fetch error while older data is shown
	First      int
	Last       int
	Total      int
	Page       int
	LastPage   int
	PageSize   int
	PageSizes  []int
	Marked     int
}

// fit pads or truncates s to exactly w cells
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

// renderTabs draws the status tabs, the active one underlined
func (r *Renderer) renderTabs(tabs []string, active int) string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if i == active {
			parts[i] = r.styles.TabActive.Render(t)
		} else {
			parts[i] = r.styles.TabInactive.Render(t)
		}
	}
	return strings.Join(parts, tabGap)
}

const tabGap = "   "

// renderHeader draws the header cells with a sort arrow on the active column
func (r *Renderer) renderHeader(cols []Column) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", checkWidth))
	for i, c := range cols {
		title := c.Title
		if c.Arrow != "" {
			title += " " + c.Arrow
		}
		cell := fit(title, c.Width)
		if c.Arrow != "" {
			b.WriteString(r.styles.HeaderActive.Render(cell))
		} else {
			b.WriteString(r.styles.Header.Render(cell))
		}
		if i < len(cols)-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (r *Renderer) renderRow(row Row, cols []Column) string {
	box := "[ ] "
	if row.Marked {
		box = r.styles.Checkbox.Render("[x]") + " "
	}

	cells := make([]string, len(cols))
	for i, c := range cols {
		text := ""
		if i < len(row.Cells) {
			text = row.Cells[i]
		}
		cell := fit(text, c.Width)
		if c.Status {
			cell = lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(text))).Render(cell)
		}
		cells[i] = cell
	}
	line := box + strings.Join(cells, " ")

	switch {
	case row.Cursor && row.Selected:
		return r.styles.SelectionBg.Bold(true).Render(line)
	case row.Cursor:
		return r.styles.HighlightBg.Render(line)
	case row.Selected:
		return r.styles.SelectionBg.Render(line)
	}
	return line
}

// renderList draws tabs, search, header, rows and pagination. The first lines
// follow the row constants above.
func (r *Renderer) renderList(s *ListState) []string {
	lines := []string{r.renderTabs(s.Tabs, s.ActiveTab)}

	switch {
	case s.Searching:
		lines = append(lines, r.styles.Filter.Render("Search: ")+s.SearchView)
	case s.Search != "":
		lines = append(lines, r.styles.Filter.Render(fmt.Sprintf("[Search: %s]", s.Search))+r.styles.Dim.Render("  / to edit"))
	default:
		lines = append(lines, r.styles.Dim.Render("/ to search"))
	}

	lines = append(lines, r.renderHeader(s.Columns))

	switch {
	case s.FirstLoad:
		lines = append(lines, r.styles.StatusLoading.Render(s.Spinner+" Loading "+s.Entity+"..."))
	case len(s.Rows) == 0 && s.Stale != "":
		lines = append(lines, r.styles.StatusError.Render("Could not load "+s.Entity+": "+s.Stale))
	case len(s.Rows) == 0:
		lines = append(lines, r.styles.Dim.Render("No "+s.Entity+" found"))
	default:
		end := s.Offset + s.Visible
		if s.Visible <= 0 || end > len(s.Rows) {
			end = len(s.Rows)
		}
		for _, row := range s.Rows[s.Offset:end] {
			lines = append(lines, r.renderRow(row, s.Columns))
		}
	}

	lines = append(lines, "", r.renderPagination(s))
	return lines
}

// renderPagination draws "Showing a-b of total", the page size options and
// the page navigator
func (r *Renderer) renderPagination(s *ListState) string {
	showing := fmt.Sprintf("Showing %d-%d of %d", s.First, s.Last, s.Total)
	if s.Total == 0 {
		showing = "Showing 0 of 0"
	}

	sizes := make([]string, len(s.PageSizes))
	for i, n := range s.PageSizes {
		if n == s.PageSize {
			sizes[i] = r.styles.Highlight.Render(fmt.Sprintf("[%d]", n))
		} else {
			sizes[i] = r.styles.Dim.Render(fmt.Sprintf("%d", n))
		}
	}

	prev, next := "‹", "›"
	if s.Page <= 1 {
		prev = r.styles.Dim.Render(prev)
	}
	if s.Page >= s.LastPage {
		next = r.styles.Dim.Render(next)
	}
	nav := fmt.Sprintf("%s Page %d of %d %s", prev, s.Page, s.LastPage, next)

	parts := []string{showing, "Rows per page: " + strings.Join(sizes, " "), nav}
	if s.Marked > 0 {
		parts = append(parts, r.styles.Checkbox.Render(fmt.Sprintf("%d marked", s.Marked)))
	}
	return r.styles.Status.Render(strings.Join(parts, "   "))
}

// HitKind is what a mouse click landed on
type HitKind int

const (
	HitNone HitKind = iota
	HitNav
	HitTab
	HitHeader
	HitCheckbox
	HitRow
)

// Hit is the result of HitTest
type Hit struct {
	Kind  HitKind
	Index int // nav item, tab, column or row index
}

// HitTest maps a click at x, y on the list screen to what was clicked. Row
// indexes are page indexes, offset already applied.
func HitTest(s *ListState, nav []string, x, y int) Hit {
	x -= leftPadding
	if x < 0 {
		return Hit{}
	}

	switch y {
	case navRow:
		if i := spanAt(navWidths(nav), 0, x); i >= 0 {
			return Hit{Kind: HitNav, Index: i}
		}
		return Hit{}
	case tabRow:
		widths := make([]int, len(s.Tabs))
		for i, t := range s.Tabs {
			widths[i] = runewidth.StringWidth(t)
		}
		if i := spanAt(widths, runewidth.StringWidth(tabGap), x); i >= 0 {
			return Hit{Kind: HitTab, Index: i}
		}
		return Hit{}
	case headerRow:
		if i := columnAt(s.Columns, x); i >= 0 {
			return Hit{Kind: HitHeader, Index: i}
		}
		return Hit{}
	}

	if y < firstRow || s.FirstLoad {
		return Hit{}
	}
	row := s.Offset + (y - firstRow)
	if row >= len(s.Rows) || (s.Visible > 0 && y-firstRow >= s.Visible) {
		return Hit{}
	}
	if x < checkWidth {
		return Hit{Kind: HitCheckbox, Index: row}
	}
	return Hit{Kind: HitRow, Index: row}
}

// spanAt finds which of consecutive spans of the given widths contains x
func spanAt(widths []int, gap, x int) int {
	pos := 0
	for i, w := range widths {
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + gap
	}
	return -1
}

func columnAt(cols []Column, x int) int {
	pos := checkWidth
	for i, c := range cols {
		if x >= pos && x < pos+c.Width {
			return i
		}
		pos += c.Width + 1
	}
	return -1
}
