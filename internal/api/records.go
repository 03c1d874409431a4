package api

import (
	"context"
	"net/http"
	"net/url"

	"staffdash/internal/domain"
)

type createdRecord struct {
	ID string `json:"id"`
}

// Create posts a new record and returns the id the server assigned
func (c *Client) Create(ctx context.Context, entity domain.Entity, payload interface{}) (string, error) {
	var out createdRecord
	err := c.do(ctx, "create "+singular(entity), http.MethodPost, "/api/"+string(entity), nil, payload, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

// Update patches an existing record
func (c *Client) Update(ctx context.Context, entity domain.Entity, id string, payload interface{}) error {
	return c.do(ctx, "update "+singular(entity), http.MethodPatch, recordPath(entity, id), nil, payload, nil)
}

// Delete removes a record
func (c *Client) Delete(ctx context.Context, entity domain.Entity, id string) error {
	return c.do(ctx, "delete "+singular(entity), http.MethodDelete, recordPath(entity, id), nil, nil, nil)
}

func recordPath(entity domain.Entity, id string) string {
	return "/api/" + string(entity) + "/" + url.PathEscape(id)
}

func singular(entity domain.Entity) string {
	switch entity {
	case domain.EntityEmployees:
		return "employee"
	case domain.EntityProjects:
		return "project"
	case domain.EntityInvoices:
		return "invoice"
	}
	return string(entity)
}
