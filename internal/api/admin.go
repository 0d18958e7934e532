package api

import (
	"context"  // Request cancellation and deadlines
	"net/http" // HTTP methods
	"strings"  // Response text trimming
)

// AdminLoginRequest is the payload for administrator login
type AdminLoginRequest struct {
	Username string `json:"username"` // Administrator username
	Password string `json:"password"` // Administrator password
}

// AdminLogin authenticates an administrator. The backend answers with a
// plain-text confirmation; no identifier or token is returned, so the caller
// persists only the admin flag.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/admin/login", AdminLoginRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
