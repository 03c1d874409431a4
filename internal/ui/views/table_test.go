package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() *ListState {
	return &ListState{
		Entity:    "employees",
		Tabs:      []string{"All", "Current", "Past"},
		ActiveTab: 0,
		Columns: []Column{
			{Title: "Name", Width: 10, Sortable: true, Arrow: "↑"},
			{Title: "Department", Width: 8, Sortable: true},
		},
		Rows: []Row{
			{Cells: []string{"Ana Anić", "Dev"}},
			{Cells: []string{"Bojan Babić", "QA"}, Marked: true},
			{Cells: []string{"Cvijeta", "Ops"}},
		},
		Visible:   10,
		First:     1,
		Last:      3,
		Total:     3,
		Page:      1,
		LastPage:  1,
		PageSize:  10,
		PageSizes: []int{10, 25, 50},
	}
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab   ", fit("ab", 5))
	assert.Equal(t, "abcd…", fit("abcdefgh", 5))
	assert.Equal(t, "", fit("abc", 0))
	assert.Equal(t, 6, lipgloss.Width(fit("日本語テキスト", 6)))
}

func TestHitTestNavAndTabs(t *testing.T) {
	s := sampleList()
	nav := []string{"Home", "Employees"}

	// nav items are padded by one cell on each side
	assert.Equal(t, Hit{Kind: HitNav, Index: 0}, HitTest(s, nav, leftPadding, navRow))
	assert.Equal(t, Hit{Kind: HitNav, Index: 1}, HitTest(s, nav, leftPadding+6, navRow))

	assert.Equal(t, Hit{Kind: HitTab, Index: 0}, HitTest(s, nav, leftPadding+1, tabRow))
	// "All" plus the gap
	assert.Equal(t, Hit{Kind: HitTab, Index: 1}, HitTest(s, nav, leftPadding+6, tabRow))
	assert.Equal(t, Hit{}, HitTest(s, nav, leftPadding+4, tabRow))

	assert.Equal(t, Hit{}, HitTest(s, nav, 0, tabRow))
}

func TestHitTestHeaderAndRows(t *testing.T) {
	s := sampleList()

	assert.Equal(t, Hit{Kind: HitHeader, Index: 0}, HitTest(s, nil, leftPadding+checkWidth, headerRow))
	assert.Equal(t, Hit{Kind: HitHeader, Index: 1}, HitTest(s, nil, leftPadding+checkWidth+11, headerRow))
	assert.Equal(t, Hit{}, HitTest(s, nil, leftPadding+1, headerRow))

	assert.Equal(t, Hit{Kind: HitCheckbox, Index: 1}, HitTest(s, nil, leftPadding+1, firstRow+1))
	assert.Equal(t, Hit{Kind: HitRow, Index: 2}, HitTest(s, nil, leftPadding+checkWidth+2, firstRow+2))
	assert.Equal(t, Hit{}, HitTest(s, nil, leftPadding+checkWidth+2, firstRow+3))
}

func TestHitTestHonorsOffsetAndLoading(t *testing.T) {
	s := sampleList()
	s.Offset = 1
	s.Visible = 1

	assert.Equal(t, Hit{Kind: HitRow, Index: 1}, HitTest(s, nil, leftPadding+checkWidth, firstRow))
	assert.Equal(t, Hit{}, HitTest(s, nil, leftPadding+checkWidth, firstRow+1))

	s.FirstLoad = true
	assert.Equal(t, Hit{}, HitTest(s, nil, leftPadding+checkWidth, firstRow))
}

func TestRenderList(t *testing.T) {
	r := NewRenderer()
	lines := r.renderList(sampleList())

	require.Greater(t, len(lines), firstRow)
	assert.Contains(t, lines[0], "Current")
	assert.Contains(t, lines[1], "/ to search")
	assert.Contains(t, lines[2], "Name ↑")
	assert.Contains(t, lines[3], "Ana Anić")
	assert.Contains(t, lines[4], "[x]")
	assert.Contains(t, lines[len(lines)-1], "Showing 1-3 of 3")
}

func TestRenderListStates(t *testing.T) {
	r := NewRenderer()

	s := sampleList()
	s.Rows = nil
	s.FirstLoad = true
	s.Spinner = "*"
	assert.Contains(t, strings.Join(r.renderList(s), "\n"), "Loading employees...")

	s.FirstLoad = false
	s.Stale = "server unavailable"
	assert.Contains(t, strings.Join(r.renderList(s), "\n"), "Could not load employees: server unavailable")

	s.Stale = ""
	assert.Contains(t, strings.Join(r.renderList(s), "\n"), "No employees found")

	s.Search = "ana"
	assert.Contains(t, strings.Join(r.renderList(s), "\n"), "[Search: ana]")
}

func TestRenderPagination(t *testing.T) {
	r := NewRenderer()

	s := sampleList()
	s.Total = 42
	s.First = 11
	s.Last = 20
	s.Page = 2
	s.LastPage = 5
	s.Marked = 2
	out := r.renderPagination(s)
	assert.Contains(t, out, "Showing 11-20 of 42")
	assert.Contains(t, out, "[10]")
	assert.Contains(t, out, "Page 2 of 5")
	assert.Contains(t, out, "2 marked")

	s.Total = 0
	s.Marked = 0
	out = r.renderPagination(s)
	assert.Contains(t, out, "Showing 0 of 0")
	assert.NotContains(t, out, "marked")
}

func TestVisibleRows(t *testing.T) {
	assert.Equal(t, 1, VisibleRows(3))
	assert.Equal(t, BodyHeight(40)-5, VisibleRows(40))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "78", StatusColor("Paid"))
	assert.Equal(t, "203", StatusColor("Past"))
	assert.Equal(t, "252", StatusColor("whatever"))
}

func TestRenderConfirmOverlay(t *testing.T) {
	r := NewRenderer()
	out := r.Render(ViewState{
		Width:   80,
		Height:  24,
		Nav:     []string{"Home", "Employees"},
		List:    sampleList(),
		Confirm: &ConfirmState{Title: "Delete employee", Description: "Delete Ana Anić?"},
	})
	assert.Contains(t, out, "Delete Ana Anić?")
}

func TestRenderForm(t *testing.T) {
	r := NewRenderer()
	out := r.Render(ViewState{
		Width:  80,
		Height: 24,
		Form: &FormState{
			Title: "Sign in",
			Fields: []FieldState{
				{Label: "Email", Value: "ana@example.com", Focused: true},
				{Label: "Password", Value: "••••", Error: "Password is required"},
			},
		},
	})
	assert.Contains(t, out, "Sign in")
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "Password is required")
}
