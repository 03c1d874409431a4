package api

import (
	"context"
	"net/http"
	"net/url"

	"staffdash/internal/domain"
)

// LoginResult is what a successful login returns
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, "login", http.MethodPost, "/api/users/login", nil, credentials{Email: email, Password: password}, &out)
	return out, err
}

type resetRequest struct {
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ResetPassword sets a new password using the one-time token from the reset
// email and returns the server's confirmation message
func (c *Client) ResetPassword(ctx context.Context, userID, token, password string) (string, error) {
	path := "/api/users/" + url.PathEscape(userID) + "/reset-password/" + url.PathEscape(token)
	var out messageResponse
	if err := c.do(ctx, "reset password", http.MethodPost, path, nil, resetRequest{Password: password}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ProjectsInfo fetches the numbers behind the dashboard charts
func (c *Client) ProjectsInfo(ctx context.Context) (domain.ProjectsInfo, error) {
	var out domain.ProjectsInfo
	err := c.do(ctx, "projects info", http.MethodGet, "/api/projects/info", nil, nil, &out)
	return out, err
}
