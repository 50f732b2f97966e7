package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/archie46/loan-management/internal/domain/loan"
	"github.com/archie46/loan-management/internal/domain/repayment"
	"github.com/archie46/loan-management/internal/domain/request"
	"github.com/archie46/loan-management/internal/domain/user"
	"github.com/archie46/loan-management/internal/http/middleware"
)

type UserAPI interface {
	ListLoanProducts(ctx context.Context, token string) ([]loan.Product, error)
	GetLoanProduct(ctx context.Context, token string, id int64) (*loan.Product, error)
	ApplyForLoan(ctx context.Context, token string, in loan.Application) error
	CancelLoanRequest(ctx context.Context, token string, requestID int64, username string) error
	UserLoanRequests(ctx context.Context, token string, userID int64, status string) ([]request.LoanRequest, error)
	UserRepayments(ctx context.Context, token string, userID int64, status string) ([]repayment.Repayment, error)
	Me(ctx context.Context, token string) (*user.User, error)
}

type UserHandler struct {
	api    UserAPI
	logger *slog.Logger
}

func NewUserHandler(api UserAPI, logger *slog.Logger) *UserHandler {
	return &UserHandler{api: api, logger: logger}
}

type dashboardPage struct {
	Username string
	Tab      string
	Error    string
	Notice   string

	// apply tab
	Products []loan.Product
	Selected *loan.Product
	Amount   string

	// requests tab
	Requests []request.LoanRequest

	// repayments tab
	Groups   []repayment.Group
	Expanded []int64
}

// ExpandQuery builds the expand query params for a group link, flipping the
// named request id. Each group toggles independently.
func (p dashboardPage) ExpandQuery(toggle int64) string {
	q := url.Values{}
	q.Set("tab", "repayments")
	seen := false
	for _, id := range p.Expanded {
		if id == toggle {
			seen = true
			continue
		}
		q.Add("expand", strconv.FormatInt(id, 10))
	}
	if !seen {
		q.Add("expand", strconv.FormatInt(toggle, 10))
	}
	return "/dashboard?" + q.Encode()
}

// Dashboard is the employee home: the apply tab lists loan products with an
// inline application form, the requests tab shows the user's own requests,
// and the repayments tab shows installments grouped per loan with show-more
// toggles.
func (h *UserHandler) Dashboard(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := dashboardPage{
		Username: sess.Username,
		Tab:      c.DefaultQuery("tab", "apply"),
		Error:    c.Query("error"),
		Notice:   c.Query("notice"),
		Amount:   c.Query("amount"),
	}

	switch page.Tab {
	case "requests":
		h.fillRequests(c, sess.Token, sess.UserID, &page)
	case "repayments":
		h.fillRepayments(c, sess.Token, sess.UserID, &page)
	default:
		page.Tab = "apply"
		h.fillApply(c, sess.Token, &page)
	}

	c.HTML(http.StatusOK, "dashboard.html", page)
}

func (h *UserHandler) fillApply(c *gin.Context, token string, page *dashboardPage) {
	products, err := h.api.ListLoanProducts(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("products fetch failed", "err", err)
		page.Error = "Failed to load loan products."
		return
	}
	page.Products = products

	if raw := c.Query("loan"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			for i := range products {
				if products[i].ID == id {
					page.Selected = &products[i]
					break
				}
			}
		}
	}
}

func (h *UserHandler) fillRequests(c *gin.Context, token string, userID int64, page *dashboardPage) {
	requests, err := h.api.UserLoanRequests(c.Request.Context(), token, userID, "")
	if err != nil {
		h.logger.Error("requests fetch failed", "userId", userID, "err", err)
		page.Error = "Failed to load loan requests."
		return
	}
	page.Requests = requests
}

// fillRepayments needs both the user's requests and their repayments; the
// two backend calls are independent so they run concurrently.
func (h *UserHandler) fillRepayments(c *gin.Context, token string, userID int64, page *dashboardPage) {
	var (
		wg       sync.WaitGroup
		requests []request.LoanRequest
		reps     []repayment.Repayment
		reqErr   error
		repErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		requests, reqErr = h.api.UserLoanRequests(c.Request.Context(), token, userID, "")
	}()
	go func() {
		defer wg.Done()
		reps, repErr = h.api.UserRepayments(c.Request.Context(), token, userID, "")
	}()
	wg.Wait()

	if reqErr != nil || repErr != nil {
		h.logger.Error("repayments fetch failed", "userId", userID, "reqErr", reqErr, "repErr", repErr)
		page.Error = "Failed to load repayments."
		return
	}

	expanded := make(map[int64]bool)
	for _, raw := range c.QueryArray("expand") {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expanded[id] = true
			page.Expanded = append(page.Expanded, id)
		}
	}
	page.Groups = repayment.GroupByRequest(requests, reps, expanded)
}

type applyForm struct {
	LoanID int64  `form:"loanId"`
	Amount string `form:"amount"`
}

// Apply validates the submission locally before calling the backend; a
// validation failure returns to the open product form with the message and
// the typed amount preserved.
func (h *UserHandler) Apply(c *gin.Context) {
	sess := middleware.SessionFrom(c)

	var form applyForm
	if err := c.ShouldBind(&form); err != nil || form.LoanID == 0 {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	back := func(msg string) string {
		q := url.Values{}
		q.Set("tab", "apply")
		q.Set("loan", strconv.FormatInt(form.LoanID, 10))
		if msg != "" {
			q.Set("error", msg)
			q.Set("amount", form.Amount)
		}
		return "/dashboard?" + q.Encode()
	}

	product, err := h.api.GetLoanProduct(c.Request.Context(), sess.Token, form.LoanID)
	if err != nil {
		h.logger.Error("product fetch failed", "loanId", form.LoanID, "err", err)
		c.Redirect(http.StatusFound, back("Failed to apply for loan. Please try again."))
		return
	}

	app, err := loan.ValidateApplication(sess.Username, form.Amount, *product)
	if err != nil {
		if err == loan.ErrNotLoggedIn {
			c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape("User not logged in"))
			return
		}
		c.Redirect(http.StatusFound, back(err.Error()))
		return
	}

	if err := h.api.ApplyForLoan(c.Request.Context(), sess.Token, app); err != nil {
		h.logger.Error("apply failed", "loanId", form.LoanID, "err", err)
		c.Redirect(http.StatusFound, back("Failed to apply for loan. Please try again."))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard?tab=requests&notice="+url.QueryEscape("Loan request submitted."))
}

func (h *UserHandler) Cancel(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/dashboard?tab=requests")
		return
	}

	if err := h.api.CancelLoanRequest(c.Request.Context(), sess.Token, id, sess.Username); err != nil {
		h.logger.Error("cancel failed", "requestId", id, "err", err)
		c.Redirect(http.StatusFound, "/dashboard?tab=requests&error="+url.QueryEscape("Failed to cancel loan request"))
		return
	}
	c.Redirect(http.StatusFound, "/dashboard?tab=requests&notice="+url.QueryEscape("Loan request cancelled."))
}

type profilePage struct {
	Username string
	User     *user.User
	Error    string
}

func (h *UserHandler) Profile(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := profilePage{Username: sess.Username}

	me, err := h.api.Me(c.Request.Context(), sess.Token)
	if err != nil {
		h.logger.Error("profile fetch failed", "err", err)
		page.Error = "Failed to load profile."
		c.HTML(http.StatusOK, "profile.html", page)
		return
	}

	page.User = me
	c.HTML(http.StatusOK, "profile.html", page)
}
