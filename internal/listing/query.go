// Package listing holds the list-view controller shared by every table in the
// dashboard: query state, request keys, pages, the data source and the
// controller that ties them to user intents.
package listing

import (
	"net/url"
	"strconv"
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle returns the opposite direction
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// RequestKey is a deterministic encoding of every query input. Two queries
// with the same key ask the server for the same page.
type RequestKey string

// Query is an immutable snapshot of a QueryState
type Query struct {
	Search        string
	Status        string
	SortField     string
	SortDirection Direction
	Page          int
	PageSize      int
}

// Key encodes the query. url.Values sorts its keys so the encoding does not
// depend on field order.
func (q Query) Key() RequestKey {
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("status", q.Status)
	v.Set("sort", q.SortField)
	v.Set("dir", string(q.SortDirection))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.PageSize))
	return RequestKey(v.Encode())
}

// Defaults is what a QueryState starts from and returns to on tab changes
type Defaults struct {
	SortField     string
	SortDirection Direction
	PageSize      int
	Status        string
}

// QueryState holds the search, filter, sort and pagination inputs of one list.
// Every setter except SetPage puts the list back on page 1.
type QueryState struct {
	defaults Defaults
	q        Query
}

// NewQueryState creates the state a view starts with on mount
func NewQueryState(d Defaults) *QueryState {
	if d.PageSize <= 0 {
		d.PageSize = 10
	}
	if d.SortDirection == "" {
		d.SortDirection = Asc
	}
	return &QueryState{
		defaults: d,
		q: Query{
			Status:        d.Status,
			SortField:     d.SortField,
			SortDirection: d.SortDirection,
			Page:          1,
			PageSize:      d.PageSize,
		},
	}
}

// Query returns a snapshot of the current inputs
func (s *QueryState) Query() Query { return s.q }

// Defaults returns the defaults the state was created with
func (s *QueryState) Defaults() Defaults { return s.defaults }

func (s *QueryState) SetSearch(term string) {
	s.q.Search = term
	s.q.Page = 1
}

func (s *QueryState) SetStatus(status string) {
	s.q.Status = status
	s.q.Page = 1
}

func (s *QueryState) SetSort(field string, dir Direction) {
	s.q.SortField = field
	s.q.SortDirection = dir
	s.q.Page = 1
}

func (s *QueryState) SetSortDirection(dir Direction) {
	s.q.SortDirection = dir
	s.q.Page = 1
}

func (s *QueryState) SetPageSize(size int) {
	if size > 0 {
		s.q.PageSize = size
	}
	s.q.Page = 1
}

// SetPage moves to a page without touching any other input
func (s *QueryState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.q.Page = page
}

// ToggleSort applies a header click: the active column flips direction, any
// other column becomes active in ascending order.
func (s *QueryState) ToggleSort(field string) {
	if s.q.SortField == field {
		s.SetSortDirection(s.q.SortDirection.Toggle())
		return
	}
	s.SetSort(field, Asc)
}

// SelectTab switches the top-level tab. Search, sort and page size go back to
// their defaults together with the page.
func (s *QueryState) SelectTab(status string) {
	s.q = Query{
		Status:        status,
		SortField:     s.defaults.SortField,
		SortDirection: s.defaults.SortDirection,
		Page:          1,
		PageSize:      s.defaults.PageSize,
	}
}
