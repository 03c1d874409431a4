package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState() *QueryState {
	return NewQueryState(Defaults{SortField: "firstName", SortDirection: Asc, PageSize: 10})
}

func TestSettersResetPage(t *testing.T) {
	setters := map[string]func(s *QueryState){
		"search":    func(s *QueryState) { s.SetSearch("ana") },
		"status":    func(s *QueryState) { s.SetStatus("Paid") },
		"sort":      func(s *QueryState) { s.SetSort("lastName", Desc) },
		"direction": func(s *QueryState) { s.SetSortDirection(Desc) },
		"page size": func(s *QueryState) { s.SetPageSize(20) },
		"toggle":    func(s *QueryState) { s.ToggleSort("salary") },
	}

	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			s := newState()
			s.SetPage(3)
			require.Equal(t, 3, s.Query().Page)

			set(s)
			assert.Equal(t, 1, s.Query().Page, "page should reset after %s change", name)
		})
	}
}

func TestSetterWithUnchangedValueStillResetsPage(t *testing.T) {
	s := newState()
	s.SetSearch("ana")
	s.SetPage(4)

	s.SetSearch("ana")
	assert.Equal(t, 1, s.Query().Page)
}

func TestSetPageLeavesOtherFields(t *testing.T) {
	s := newState()
	s.SetSearch("ana")
	s.SetStatus("true")
	s.SetSort("salary", Desc)
	s.SetPageSize(50)
	before := s.Query()

	s.SetPage(2)
	after := s.Query()

	assert.Equal(t, 2, after.Page)
	after.Page = before.Page
	assert.Equal(t, before, after)
}

func TestSetPageBelowOne(t *testing.T) {
	s := newState()
	s.SetPage(0)
	assert.Equal(t, 1, s.Query().Page)
	s.SetPage(-5)
	assert.Equal(t, 1, s.Query().Page)
}

func TestSetPageSizeIgnoresNonPositive(t *testing.T) {
	s := newState()
	s.SetPage(2)
	s.SetPageSize(0)
	assert.Equal(t, 10, s.Query().PageSize)
	assert.Equal(t, 1, s.Query().Page)
}

func TestToggleSort(t *testing.T) {
	s := newState()

	// Clicking the active column flips its direction
	s.ToggleSort("firstName")
	assert.Equal(t, "firstName", s.Query().SortField)
	assert.Equal(t, Desc, s.Query().SortDirection)

	s.ToggleSort("firstName")
	assert.Equal(t, Asc, s.Query().SortDirection)

	// A different column becomes active in ascending order
	s.ToggleSort("firstName")
	require.Equal(t, Desc, s.Query().SortDirection)
	s.ToggleSort("salary")
	assert.Equal(t, "salary", s.Query().SortField)
	assert.Equal(t, Asc, s.Query().SortDirection)
}

func TestSelectTabRestoresDefaults(t *testing.T) {
	s := newState()
	s.SetSearch("ana")
	s.SetSort("salary", Desc)
	s.SetPageSize(50)
	s.SetPage(3)

	s.SelectTab("false")
	q := s.Query()

	assert.Equal(t, "false", q.Status)
	assert.Empty(t, q.Search)
	assert.Equal(t, "firstName", q.SortField)
	assert.Equal(t, Asc, q.SortDirection)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, 1, q.Page)
}

func TestNewQueryStateDefaults(t *testing.T) {
	s := NewQueryState(Defaults{SortField: "client"})
	q := s.Query()
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, Asc, q.SortDirection)
	assert.Equal(t, 1, q.Page)
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Query{Search: "ana", Status: "true", SortField: "firstName", SortDirection: Asc, Page: 2, PageSize: 10}
	b := Query{PageSize: 10, Page: 2, SortDirection: Asc, SortField: "firstName", Status: "true", Search: "ana"}
	assert.Equal(t, a.Key(), b.Key())

	b.Page = 3
	assert.NotEqual(t, a.Key(), b.Key())

	// Search terms containing separators must not collide
	c := Query{Search: "a&page=9", Page: 1, PageSize: 10}
	d := Query{Search: "a", Page: 9, PageSize: 10}
	assert.NotEqual(t, c.Key(), d.Key())
}

func TestDirectionToggle(t *testing.T) {
	assert.Equal(t, Desc, Asc.Toggle())
	assert.Equal(t, Asc, Desc.Toggle())
}
