// Package api talks to the dashboard's remote HTTP API. Every failure comes
// back as one of the domain error types so callers never inspect status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"staffdash/internal/domain"
)

// RequestIDHeader carries a per-request id the server echoes in its logs
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() string
}

// Options configures a Client
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client is a thin JSON client for the remote API
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
}

// New creates a client. tokens may be nil for unauthenticated calls.
func New(opts Options, tokens TokenSource) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		tokens:  tokens,
	}
}

// errorPayload is the body the server sends with a failed request
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (p errorPayload) text() string {
	if p.Error != "" {
		return p.Error
	}
	return p.Message
}

// do sends one request and decodes a JSON response into out when out is not nil
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.TransportError{Op: op, Err: err}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := decodeError(op, path, resp)
		log.Printf("API %s %s failed (request %s): %v", method, path, req.Header.Get(RequestIDHeader), err)
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// decodeError maps a failed response onto the domain error taxonomy
func decodeError(op, path string, resp *http.Response) error {
	var payload errorPayload
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(data) > 0 {
		_ = json.Unmarshal(data, &payload)
	}
	msg := payload.text()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.ValidationError{Field: payload.Field, Msg: msg}
	case http.StatusNotFound:
		resource, id := splitPath(path)
		return domain.NotFoundError{Resource: resource, ID: id, Err: errors.New(msg)}
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.UnauthorizedError{Msg: msg}
	}
	return domain.TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
}

// splitPath turns "/api/employees/42" into ("employees", "42")
func splitPath(path string) (string, string) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api"), "/"), "/")
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], parts[1]
}
