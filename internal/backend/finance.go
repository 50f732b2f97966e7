package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/archie46/loan-management/internal/domain/repayment"
	"github.com/archie46/loan-management/internal/domain/request"
)

// AllLoanRequests is the finance queue: every request system-wide.
func (c *Client) AllLoanRequests(ctx context.Context, token, status string) ([]request.LoanRequest, error) {
	var out []request.LoanRequest
	if err := c.do(ctx, token, http.MethodGet, "/api/finance/loanRequests", statusQuery(status), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DisburseLoan releases funds for an approved request; the backend generates
// the repayment schedule as part of the same operation.
func (c *Client) DisburseLoan(ctx context.Context, token string, loanRequestID int64) error {
	return c.do(ctx, token, http.MethodPost, fmt.Sprintf("/api/finance/disburse/%d", loanRequestID), nil, nil, nil)
}

func (c *Client) RepaymentSchedule(ctx context.Context, token string, loanRequestID int64) ([]repayment.Repayment, error) {
	var out []repayment.Repayment
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/finance/repayments/%d", loanRequestID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkRepaymentPaid(ctx context.Context, token string, repaymentID int64) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/finance/repayments/%d/mark-paid", repaymentID), nil, nil, nil)
}

// UserRepayments lists every repayment belonging to the user's loan
// requests, optionally narrowed by repayment status.
func (c *Client) UserRepayments(ctx context.Context, token string, userID int64, status string) ([]repayment.Repayment, error) {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	if status != "" {
		q.Set("status", status)
	}
	var out []repayment.Repayment
	if err := c.do(ctx, token, http.MethodGet, "/api/finance/loanRepayments", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
