package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/archie46/loan-management/internal/domain/user"
)

func (c *Client) ListUsers(ctx context.Context, token string) ([]user.User, error) {
	var out []user.User
	if err := c.do(ctx, token, http.MethodGet, "/api/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (*user.User, error) {
	var out user.User
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the profile of the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*user.User, error) {
	var out user.User
	if err := c.do(ctx, token, http.MethodGet, "/api/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UsersByRole(ctx context.Context, token, role string) ([]user.User, error) {
	var out []user.User
	if err := c.do(ctx, token, http.MethodGet, "/api/users/role/"+role, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, in user.User) error {
	return c.do(ctx, token, http.MethodPost, "/api/users", nil, in, nil)
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in user.User) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/users/%d", id), nil, in, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil, nil)
}
