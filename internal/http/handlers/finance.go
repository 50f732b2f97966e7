package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archie46/loan-management/internal/domain/repayment"
	"github.com/archie46/loan-management/internal/domain/request"
	"github.com/archie46/loan-management/internal/http/middleware"
)

type FinanceAPI interface {
	AllLoanRequests(ctx context.Context, token, status string) ([]request.LoanRequest, error)
	DisburseLoan(ctx context.Context, token string, loanRequestID int64) error
	RepaymentSchedule(ctx context.Context, token string, loanRequestID int64) ([]repayment.Repayment, error)
	MarkRepaymentPaid(ctx context.Context, token string, repaymentID int64) error
}

type FinanceHandler struct {
	api    FinanceAPI
	logger *slog.Logger
}

func NewFinanceHandler(api FinanceAPI, logger *slog.Logger) *FinanceHandler {
	return &FinanceHandler{api: api, logger: logger}
}

type financePage struct {
	Username string
	Requests []request.LoanRequest
	Error    string
	Notice   string
}

// Queue shows every loan request system-wide. Disbursement is only offered
// for approved requests; the template checks the status per row.
func (h *FinanceHandler) Queue(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := financePage{
		Username: sess.Username,
		Error:    c.Query("error"),
		Notice:   c.Query("notice"),
	}

	requests, err := h.api.AllLoanRequests(c.Request.Context(), sess.Token, "")
	if err != nil {
		h.logger.Error("finance queue fetch failed", "err", err)
		page.Error = "Failed to load loan requests."
		c.HTML(http.StatusOK, "finance.html", page)
		return
	}

	page.Requests = requests
	c.HTML(http.StatusOK, "finance.html", page)
}

func (h *FinanceHandler) Disburse(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/finance")
		return
	}

	if err := h.api.DisburseLoan(c.Request.Context(), sess.Token, id); err != nil {
		h.logger.Error("disburse failed", "requestId", id, "err", err)
		c.Redirect(http.StatusFound, "/finance?error="+url.QueryEscape("Failed to disburse loan. Please try again."))
		return
	}
	c.Redirect(http.StatusFound, "/finance?notice="+url.QueryEscape("Loan disbursed successfully."))
}

type schedulePage struct {
	Username   string
	RequestID  int64
	Repayments []repayment.Repayment
	Error      string
}

func (h *FinanceHandler) Schedule(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/finance")
		return
	}

	page := schedulePage{
		Username:  sess.Username,
		RequestID: id,
		Error:     c.Query("error"),
	}

	reps, err := h.api.RepaymentSchedule(c.Request.Context(), sess.Token, id)
	if err != nil {
		h.logger.Error("schedule fetch failed", "requestId", id, "err", err)
		page.Error = "Failed to load repayment schedule."
		c.HTML(http.StatusOK, "schedule.html", page)
		return
	}

	page.Repayments = reps
	c.HTML(http.StatusOK, "schedule.html", page)
}

func (h *FinanceHandler) MarkPaid(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/finance")
		return
	}
	repaymentID, err := strconv.ParseInt(c.Param("repaymentId"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/finance/requests/"+strconv.FormatInt(requestID, 10)+"/schedule")
		return
	}

	back := "/finance/requests/" + strconv.FormatInt(requestID, 10) + "/schedule"
	if err := h.api.MarkRepaymentPaid(c.Request.Context(), sess.Token, repaymentID); err != nil {
		h.logger.Error("mark paid failed", "repaymentId", repaymentID, "err", err)
		c.Redirect(http.StatusFound, back+"?error="+url.QueryEscape("Failed to update repayment. Please try again."))
		return
	}
	c.Redirect(http.StatusFound, back)
}
