package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/archie46/loan-management/internal/domain/loan"
)

func (c *Client) ListLoanProducts(ctx context.Context, token string) ([]loan.Product, error) {
	var out []loan.Product
	if err := c.do(ctx, token, http.MethodGet, "/api/loans", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLoanProduct(ctx context.Context, token string, id int64) (*loan.Product, error) {
	var out loan.Product
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/loans/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLoanProduct(ctx context.Context, token string, in loan.ProductInput) error {
	return c.do(ctx, token, http.MethodPost, "/api/loans", nil, in, nil)
}

func (c *Client) UpdateLoanProduct(ctx context.Context, token string, id int64, in loan.ProductInput) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/loans/%d", id), nil, in, nil)
}

func (c *Client) DeleteLoanProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/loans/%d", id), nil, nil, nil)
}
