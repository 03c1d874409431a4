package listing

import (
	"context"
	"sort"

	"staffdash/internal/domain"
)

// Column describes one table column
type Column struct {
	Key      string
	Title    string
	Sortable bool
	Width    int
}

// Tab is a top-level status filter
type Tab struct {
	Label  string
	Status string
}

// Selection is the record whose drawer is open, empty when none is
type Selection struct {
	SelectedID string
}

// Config describes one list: what it shows and where it starts
type Config struct {
	Entity          domain.Entity
	Title           string
	Columns         []Column
	Tabs            []Tab
	Defaults        Defaults
	PageSizeOptions []int
}

// Controller binds a QueryState and a Source to user intents. Every intent that
// changes the query returns the ticket the caller should run.
type Controller[T domain.Record] struct {
	cfg       Config
	state     *QueryState
	source    *Source[T]
	tab       int
	cursor    int
	marked    map[string]bool
	selection Selection
}

// NewController creates a controller on its default tab
func NewController[T domain.Record](cfg Config, source *Source[T]) *Controller[T] {
	if len(cfg.PageSizeOptions) == 0 {
		cfg.PageSizeOptions = []int{10, 20, 50}
	}
	if cfg.Defaults.PageSize <= 0 {
		cfg.Defaults.PageSize = cfg.PageSizeOptions[0]
	}
	c := &Controller[T]{
		cfg:    cfg,
		state:  NewQueryState(cfg.Defaults),
		source: source,
		marked: make(map[string]bool),
	}
	for i, t := range cfg.Tabs {
		if t.Status == cfg.Defaults.Status {
			c.tab = i
			break
		}
	}
	return c
}

func (c *Controller[T]) Entity() domain.Entity  { return c.cfg.Entity }
func (c *Controller[T]) Title() string          { return c.cfg.Title }
func (c *Controller[T]) Columns() []Column      { return c.cfg.Columns }
func (c *Controller[T]) Tabs() []Tab            { return c.cfg.Tabs }
func (c *Controller[T]) ActiveTab() int         { return c.tab }
func (c *Controller[T]) PageSizeOptions() []int { return c.cfg.PageSizeOptions }
func (c *Controller[T]) Query() Query           { return c.state.Query() }
func (c *Controller[T]) Source() *Source[T]     { return c.source }
func (c *Controller[T]) Page() Page[T]          { return c.source.Page() }
func (c *Controller[T]) Selection() Selection   { return c.selection }
func (c *Controller[T]) Cursor() int            { return c.cursor }

// Load issues the fetch for the current query. Polling, refocus and reconnect
// pass force=false so an identical in-flight request is not duplicated.
func (c *Controller[T]) Load(force bool) (Ticket, bool) {
	return c.source.Begin(c.state.Query(), force)
}

func (c *Controller[T]) reload() (Ticket, bool) {
	c.cursor = 0
	return c.source.Begin(c.state.Query(), false)
}

// Search sets the free-text filter
func (c *Controller[T]) Search(term string) (Ticket, bool) {
	c.state.SetSearch(term)
	return c.reload()
}

// SelectTab switches to tab i, resetting search and sort
func (c *Controller[T]) SelectTab(i int) (Ticket, bool) {
	if i < 0 || i >= len(c.cfg.Tabs) {
		return Ticket{}, false
	}
	c.tab = i
	c.marked = make(map[string]bool)
	c.state.SelectTab(c.cfg.Tabs[i].Status)
	return c.reload()
}

func (c *Controller[T]) NextTab() (Ticket, bool) {
	if len(c.cfg.Tabs) == 0 {
		return Ticket{}, false
	}
	return c.SelectTab((c.tab + 1) % len(c.cfg.Tabs))
}

func (c *Controller[T]) PrevTab() (Ticket, bool) {
	if len(c.cfg.Tabs) == 0 {
		return Ticket{}, false
	}
	return c.SelectTab((c.tab - 1 + len(c.cfg.Tabs)) % len(c.cfg.Tabs))
}

// SortBy applies a header click on column key. Unknown or unsortable columns
// are ignored.
func (c *Controller[T]) SortBy(key string) (Ticket, bool) {
	col, ok := c.column(key)
	if !ok || !col.Sortable {
		return Ticket{}, false
	}
	c.state.ToggleSort(col.Key)
	return c.reload()
}

func (c *Controller[T]) column(key string) (Column, bool) {
	for _, col := range c.cfg.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// lastPage is the last page known from the server, 1 before any data
func (c *Controller[T]) lastPage() int {
	if !c.source.HasData() {
		return 1
	}
	return c.source.Page().LastPage
}

// GoToPage moves to page n clamped to [1, LastPage]. Moving to the page already
// shown does nothing.
func (c *Controller[T]) GoToPage(n int) (Ticket, bool) {
	n = ClampPage(n, c.lastPage())
	if n == c.state.Query().Page {
		return Ticket{}, false
	}
	c.state.SetPage(n)
	return c.reload()
}

func (c *Controller[T]) NextPage() (Ticket, bool) {
	return c.GoToPage(c.state.Query().Page + 1)
}

func (c *Controller[T]) PrevPage() (Ticket, bool) {
	return c.GoToPage(c.state.Query().Page - 1)
}

// SetPageSize changes the page size and returns to page 1
func (c *Controller[T]) SetPageSize(size int) (Ticket, bool) {
	if size <= 0 {
		return Ticket{}, false
	}
	c.state.SetPageSize(size)
	return c.reload()
}

// CyclePageSize moves to the next configured page size
func (c *Controller[T]) CyclePageSize() (Ticket, bool) {
	opts := c.cfg.PageSizeOptions
	current := c.state.Query().PageSize
	next := opts[0]
	for i, s := range opts {
		if s == current {
			next = opts[(i+1)%len(opts)]
			break
		}
	}
	return c.SetPageSize(next)
}

// Apply hands a result to the source and keeps the query and cursor consistent
// with the page the server actually returned.
func (c *Controller[T]) Apply(res Result[T]) bool {
	if !c.source.Apply(res) {
		return false
	}
	if res.Err == nil {
		if p := res.Page.CurrentPage; p > 0 && p != c.state.Query().Page {
			c.state.SetPage(p)
		}
	}
	c.clampCursor()
	return true
}

// Fetch runs a ticket to completion and applies it
func (c *Controller[T]) Fetch(ctx context.Context, t Ticket) Result[T] {
	res := c.source.Run(ctx, t)
	c.Apply(res)
	return res
}

// Rows returns the items of the displayed page
func (c *Controller[T]) Rows() []T {
	return c.source.Page().Items
}

func (c *Controller[T]) clampCursor() {
	n := len(c.Rows())
	if c.cursor >= n {
		c.cursor = n - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// MoveCursor moves the highlighted row by delta, staying on the page
func (c *Controller[T]) MoveCursor(delta int) {
	c.cursor += delta
	c.clampCursor()
}

// SetCursor highlights row i
func (c *Controller[T]) SetCursor(i int) {
	c.cursor = i
	c.clampCursor()
}

// CursorRecord returns the highlighted record
func (c *Controller[T]) CursorRecord() (T, bool) {
	return c.At(c.cursor)
}

// At returns the record shown at row i
func (c *Controller[T]) At(i int) (T, bool) {
	rows := c.Rows()
	if i < 0 || i >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[i], true
}

// ToggleMark flips the checkbox of row i. It never changes the selection.
func (c *Controller[T]) ToggleMark(i int) bool {
	rec, ok := c.At(i)
	if !ok {
		return false
	}
	id := rec.RecordID()
	if c.marked[id] {
		delete(c.marked, id)
	} else {
		c.marked[id] = true
	}
	return true
}

// IsMarked reports whether the record with id has its checkbox set
func (c *Controller[T]) IsMarked(id string) bool {
	return c.marked[id]
}

// MarkedIDs returns the ids of every marked record, sorted
func (c *Controller[T]) MarkedIDs() []string {
	ids := make([]string, 0, len(c.marked))
	for id := range c.marked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Marked returns the marked records on the displayed page
func (c *Controller[T]) Marked() []T {
	var out []T
	for _, r := range c.Rows() {
		if c.marked[r.RecordID()] {
			out = append(out, r)
		}
	}
	return out
}

func (c *Controller[T]) ClearMarks() {
	c.marked = make(map[string]bool)
}

// SelectRow records row i as the selected record and returns its id
func (c *Controller[T]) SelectRow(i int) (string, bool) {
	rec, ok := c.At(i)
	if !ok {
		return "", false
	}
	c.cursor = i
	c.selection = Selection{SelectedID: rec.RecordID()}
	return c.selection.SelectedID, true
}

// Selected returns the selected record if it is still on the displayed page
func (c *Controller[T]) Selected() (T, bool) {
	var zero T
	if c.selection.SelectedID == "" {
		return zero, false
	}
	for _, r := range c.Rows() {
		if r.RecordID() == c.selection.SelectedID {
			return r, true
		}
	}
	return zero, false
}

func (c *Controller[T]) ClearSelection() {
	c.selection = Selection{}
}
