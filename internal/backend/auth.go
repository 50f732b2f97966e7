package backend

import (
	"context"
	"net/http"
)

// LoginResponse is the backend's login payload: the bearer token plus the
// identity stored in the session.
type LoginResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.do(ctx, "", http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
