package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/archie46/loan-management/internal/domain/loan"
	"github.com/archie46/loan-management/internal/domain/request"
)

func (c *Client) ApplyForLoan(ctx context.Context, token string, in loan.Application) error {
	return c.do(ctx, token, http.MethodPost, "/api/loan-requests/apply", nil, in, nil)
}

// CancelLoanRequest sends no body; the backend identifies the request and its
// owner from query parameters and enforces cancellability itself.
func (c *Client) CancelLoanRequest(ctx context.Context, token string, requestID int64, username string) error {
	q := url.Values{}
	q.Set("requestId", strconv.FormatInt(requestID, 10))
	q.Set("username", username)
	return c.do(ctx, token, http.MethodPost, "/api/loan-requests/cancel", q, nil, nil)
}

func (c *Client) UserLoanRequests(ctx context.Context, token string, userID int64, status string) ([]request.LoanRequest, error) {
	var out []request.LoanRequest
	q := statusQuery(status)
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/loan-requests/user/%d", userID), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ManagerLoanRequests(ctx context.Context, token string, managerID int64, status string) ([]request.LoanRequest, error) {
	var out []request.LoanRequest
	q := statusQuery(status)
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/loan-requests/manager/%d", managerID), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApproveLoanRequest(ctx context.Context, token string, d request.Decision) error {
	return c.do(ctx, token, http.MethodPost, "/api/loan-requests/manager/approve", nil, d, nil)
}

func (c *Client) RejectLoanRequest(ctx context.Context, token string, d request.Decision) error {
	body := map[string]any{
		"requestId": d.RequestID,
		"managerId": d.ManagerID,
		"remarks":   d.Remarks,
	}
	return c.do(ctx, token, http.MethodPost, "/api/loan-requests/manager/reject", nil, body, nil)
}

func statusQuery(status string) url.Values {
	if status == "" {
		return nil
	}
	q := url.Values{}
	q.Set("status", status)
	return q
}
