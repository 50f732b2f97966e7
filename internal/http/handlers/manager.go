package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archie46/loan-management/internal/domain/money"
	"github.com/archie46/loan-management/internal/domain/request"
	"github.com/archie46/loan-management/internal/http/middleware"
)

type ManagerAPI interface {
	ManagerLoanRequests(ctx context.Context, token string, managerID int64, status string) ([]request.LoanRequest, error)
	ApproveLoanRequest(ctx context.Context, token string, d request.Decision) error
	RejectLoanRequest(ctx context.Context, token string, d request.Decision) error
}

type ManagerHandler struct {
	api    ManagerAPI
	logger *slog.Logger
}

func NewManagerHandler(api ManagerAPI, logger *slog.Logger) *ManagerHandler {
	return &ManagerHandler{api: api, logger: logger}
}

type managerPage struct {
	Username string
	Requests []request.LoanRequest
	Current  *request.LoanRequest
	Filter   request.Filter
	// Remarks and ApprovedAmount echo the decision form after a validation
	// failure so the manager's input is not lost.
	Remarks        string
	ApprovedAmount string
	Error          string
	Empty          bool
}

// Queue fetches the manager's assigned requests and applies the status and
// loan-type filters client-side. The detail panel opens from a query param
// and always resolves against the current fetch.
func (h *ManagerHandler) Queue(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := managerPage{
		Username: sess.Username,
		Filter: request.Filter{
			Status:   c.Query("status"),
			LoanType: c.Query("loanType"),
		},
		Remarks:        c.Query("remarks"),
		ApprovedAmount: c.Query("approvedAmount"),
		Error:          c.Query("error"),
	}

	requests, err := h.api.ManagerLoanRequests(c.Request.Context(), sess.Token, sess.UserID, "")
	if err != nil {
		h.logger.Error("manager queue fetch failed", "managerId", sess.UserID, "err", err)
		page.Error = "Failed to load loan requests."
		c.HTML(http.StatusOK, "manager.html", page)
		return
	}

	page.Empty = len(requests) == 0
	page.Requests = page.Filter.Apply(requests)

	if raw := c.Query("request"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if current, ok := request.Find(requests, id); ok {
				page.Current = &current
				if page.ApprovedAmount == "" {
					// The approved amount defaults to what was requested.
					page.ApprovedAmount = current.RequestedAmount.String()
				}
			}
		}
	}

	c.HTML(http.StatusOK, "manager.html", page)
}

type decisionForm struct {
	Remarks        string `form:"remarks"`
	ApprovedAmount string `form:"approvedAmount"`
	Status         string `form:"status"`
	LoanType       string `form:"loanType"`
}

func (h *ManagerHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *ManagerHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

// decide validates the decision inputs and only then calls the backend; a
// validation failure redirects back to the open detail panel with the inputs
// preserved and never reaches the network.
func (h *ManagerHandler) decide(c *gin.Context, approve bool) {
	sess := middleware.SessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/manager")
		return
	}

	var form decisionForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/manager")
		return
	}

	decision := request.Decision{
		RequestID: id,
		ManagerID: sess.UserID,
		Remarks:   form.Remarks,
	}
	if amount, err := money.ParseAmount(form.ApprovedAmount); err == nil {
		decision.ApprovedAmount = amount
	}

	back := func(msg string) string {
		q := url.Values{}
		q.Set("request", strconv.FormatInt(id, 10))
		if form.Status != "" {
			q.Set("status", form.Status)
		}
		if form.LoanType != "" {
			q.Set("loanType", form.LoanType)
		}
		if msg != "" {
			q.Set("error", msg)
			q.Set("remarks", form.Remarks)
			q.Set("approvedAmount", form.ApprovedAmount)
		}
		return "/manager?" + q.Encode()
	}

	if approve {
		if err := decision.ValidateApprove(); err != nil {
			c.Redirect(http.StatusFound, back(validationMessage(err)))
			return
		}
		if err := h.api.ApproveLoanRequest(c.Request.Context(), sess.Token, decision); err != nil {
			h.logger.Error("approve failed", "requestId", id, "err", err)
			c.Redirect(http.StatusFound, back("Failed to approve request. Please try again."))
			return
		}
	} else {
		if err := decision.ValidateReject(); err != nil {
			c.Redirect(http.StatusFound, back(validationMessage(err)))
			return
		}
		if err := h.api.RejectLoanRequest(c.Request.Context(), sess.Token, decision); err != nil {
			h.logger.Error("reject failed", "requestId", id, "err", err)
			c.Redirect(http.StatusFound, back("Failed to reject request. Please try again."))
			return
		}
	}

	q := url.Values{}
	if form.Status != "" {
		q.Set("status", form.Status)
	}
	if form.LoanType != "" {
		q.Set("loanType", form.LoanType)
	}
	target := "/manager"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	c.Redirect(http.StatusFound, target)
}

func validationMessage(err error) string {
	switch err {
	case request.ErrRemarksRequired:
		return "Please enter remarks."
	case request.ErrInvalidApprovedAmount:
		return "Please enter a valid approved amount."
	default:
		return err.Error()
	}
}
