package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"staffdash/internal/domain"
	"staffdash/internal/listing"
)

// listParams names the query parameters one list endpoint understands
type listParams struct {
	entity domain.Entity
	search string
	status string
}

var (
	employeeParams = listParams{entity: domain.EntityEmployees, search: "searchTerm", status: "isEmployed"}
	projectParams  = listParams{entity: domain.EntityProjects, search: "name", status: "projectStatus"}
	invoiceParams  = listParams{entity: domain.EntityInvoices, search: "client", status: "invoiceStatus"}
)

// ParamsFor returns the wire names of the search and status filters of entity
func ParamsFor(entity domain.Entity) (search, status string) {
	switch entity {
	case domain.EntityEmployees:
		return employeeParams.search, employeeParams.status
	case domain.EntityProjects:
		return projectParams.search, projectParams.status
	case domain.EntityInvoices:
		return invoiceParams.search, invoiceParams.status
	}
	return "searchTerm", "status"
}

// values encodes a query the way the list endpoints expect. Empty filters are
// left out.
func (p listParams) values(q listing.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(p.search, q.Search)
	}
	if q.Status != "" {
		v.Set(p.status, q.Status)
	}
	if q.SortField != "" {
		v.Set("orderByField", q.SortField)
		v.Set("orderDirection", string(q.SortDirection))
	}
	v.Set("take", strconv.Itoa(q.PageSize))
	v.Set("page", strconv.Itoa(q.Page))
	return v
}

// PageInfo is the pagination block of a list response
type PageInfo struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
}

func fetchList[T any](ctx context.Context, c *Client, p listParams, q listing.Query) (listing.Page[T], error) {
	op := "list " + string(p.entity)

	var raw map[string]json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "/api/"+string(p.entity), p.values(q), nil, &raw); err != nil {
		return listing.Page[T]{}, err
	}

	var items []T
	if data, ok := raw[string(p.entity)]; ok {
		if err := json.Unmarshal(data, &items); err != nil {
			return listing.Page[T]{}, domain.TransportError{Op: op, Err: fmt.Errorf("failed to decode %s: %w", p.entity, err)}
		}
	}

	var info PageInfo
	if data, ok := raw["pageInfo"]; ok {
		if err := json.Unmarshal(data, &info); err != nil {
			return listing.Page[T]{}, domain.TransportError{Op: op, Err: fmt.Errorf("failed to decode pageInfo: %w", err)}
		}
	}
	current := info.CurrentPage
	if current == 0 {
		current = q.Page
	}

	return listing.NewPage(items, info.Total, current, q.PageSize), nil
}

func (c *Client) ListEmployees(ctx context.Context, q listing.Query) (listing.Page[domain.Employee], error) {
	return fetchList[domain.Employee](ctx, c, employeeParams, q)
}

func (c *Client) ListProjects(ctx context.Context, q listing.Query) (listing.Page[domain.Project], error) {
	return fetchList[domain.Project](ctx, c, projectParams, q)
}

func (c *Client) ListInvoices(ctx context.Context, q listing.Query) (listing.Page[domain.Invoice], error) {
	return fetchList[domain.Invoice](ctx, c, invoiceParams, q)
}

// Employees returns the client as a list fetcher for employees
func (c *Client) Employees() listing.Fetcher[domain.Employee] {
	return listing.FetchFunc[domain.Employee](c.ListEmployees)
}

func (c *Client) Projects() listing.Fetcher[domain.Project] {
	return listing.FetchFunc[domain.Project](c.ListProjects)
}

func (c *Client) Invoices() listing.Fetcher[domain.Invoice] {
	return listing.FetchFunc[domain.Invoice](c.ListInvoices)
}
