package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/archie46/loan-management/internal/domain/loan"
	"github.com/archie46/loan-management/internal/domain/money"
	"github.com/archie46/loan-management/internal/domain/table"
	"github.com/archie46/loan-management/internal/domain/user"
	"github.com/archie46/loan-management/internal/http/middleware"
)

type AdminAPI interface {
	ListUsers(ctx context.Context, token string) ([]user.User, error)
	GetUser(ctx context.Context, token string, id int64) (*user.User, error)
	CreateUser(ctx context.Context, token string, in user.User) error
	UpdateUser(ctx context.Context, token string, id int64, in user.User) error
	DeleteUser(ctx context.Context, token string, id int64) error
	UsersByRole(ctx context.Context, token, role string) ([]user.User, error)

	ListLoanProducts(ctx context.Context, token string) ([]loan.Product, error)
	GetLoanProduct(ctx context.Context, token string, id int64) (*loan.Product, error)
	CreateLoanProduct(ctx context.Context, token string, in loan.ProductInput) error
	UpdateLoanProduct(ctx context.Context, token string, id int64, in loan.ProductInput) error
	DeleteLoanProduct(ctx context.Context, token string, id int64) error
}

type AdminHandler struct {
	api    AdminAPI
	logger *slog.Logger
}

func NewAdminHandler(api AdminAPI, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{api: api, logger: logger}
}

type adminPage struct {
	Username string
	Tab      string
	Search   string
	Sort     table.Sort
	Error    string
	Notice   string
	Users    []user.User
	Products []loan.Product
}

// NextDir feeds the column-header links: clicking the active column flips
// the direction, any other column starts ascending.
func (p adminPage) NextDir(key string) string {
	return p.Sort.Toggle(key).Dir()
}

func userColumns(u user.User) map[string]string {
	return map[string]string{
		"id":         strconv.FormatInt(u.ID, 10),
		"name":       u.Name,
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"department": u.Department,
	}
}

func productColumns(p loan.Product) map[string]string {
	return map[string]string{
		"id":             strconv.FormatInt(p.ID, 10),
		"loanType":       p.LoanType,
		"maxAmount":      p.MaxAmount.String(),
		"interestRate":   p.InterestRate.String(),
		"durationMonths": strconv.Itoa(p.DurationMonths),
	}
}

// Dashboard renders the users or loan-products tab. Collections are fetched
// fresh on every activation; search and sort run entirely in memory.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := adminPage{
		Username: sess.Username,
		Tab:      c.DefaultQuery("tab", "users"),
		Search:   c.Query("q"),
		Sort:     table.ParseSort(c.Query("sort"), c.Query("dir")),
		Error:    c.Query("error"),
		Notice:   c.Query("notice"),
	}

	switch page.Tab {
	case "loans":
		products, err := h.api.ListLoanProducts(c.Request.Context(), sess.Token)
		if err != nil {
			h.logger.Error("list loan products failed", "err", err)
			page.Error = "Failed to load loan products. Please try again."
		} else {
			page.Products = table.Apply(products, productColumns, page.Search, page.Sort)
		}
	default:
		page.Tab = "users"
		users, err := h.api.ListUsers(c.Request.Context(), sess.Token)
		if err != nil {
			h.logger.Error("list users failed", "err", err)
			page.Error = "Failed to load users. Please try again."
		} else {
			page.Users = table.Apply(users, userColumns, page.Search, page.Sort)
		}
	}

	c.HTML(http.StatusOK, "admin.html", page)
}

type userFormPage struct {
	Username string
	Editing  bool
	User     user.User
	Error    string
}

func (h *AdminHandler) UserFormPage(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := userFormPage{Username: sess.Username}

	if raw := c.Param("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.Redirect(http.StatusFound, "/admin?tab=users")
			return
		}
		u, err := h.api.GetUser(c.Request.Context(), sess.Token, id)
		if err != nil {
			h.logger.Error("get user failed", "id", id, "err", err)
			c.Redirect(http.StatusFound, "/admin?tab=users&error="+url.QueryEscape("Failed to load user. Please try again."))
			return
		}
		page.Editing = true
		page.User = *u
	}

	c.HTML(http.StatusOK, "user_form.html", page)
}

type userForm struct {
	ID                int64  `form:"id"`
	Name              string `form:"name"`
	Username          string `form:"username"`
	Email             string `form:"email"`
	Password          string `form:"password"`
	Role              string `form:"role"`
	Department        string `form:"department"`
	Salary            string `form:"salary"`
	AccountBalance    string `form:"accountBalance"`
	BankAccountNumber string `form:"bankAccountNumber"`
	IsActive          string `form:"isActive"`
}

// SaveUser handles both create and edit; edit mode is flagged by a non-zero
// id in the form.
func (h *AdminHandler) SaveUser(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/admin?tab=users&error="+url.QueryEscape("Invalid form submission"))
		return
	}

	rerender := func(msg string) {
		c.HTML(http.StatusOK, "user_form.html", userFormPage{
			Username: sess.Username,
			Editing:  form.ID > 0,
			User:     formToUser(form),
			Error:    msg,
		})
	}

	salary, err := parseOptionalAmount(form.Salary)
	if err != nil {
		rerender("Please enter a valid salary.")
		return
	}
	balance, err := parseOptionalAmount(form.AccountBalance)
	if err != nil {
		rerender("Please enter a valid account balance.")
		return
	}

	in := formToUser(form)
	in.Salary = salary
	in.AccountBalance = balance

	if form.ID > 0 {
		err = h.api.UpdateUser(c.Request.Context(), sess.Token, form.ID, in)
	} else {
		err = h.api.CreateUser(c.Request.Context(), sess.Token, in)
	}
	if err != nil {
		h.logger.Error("save user failed", "id", form.ID, "err", err)
		rerender("Failed to save user. Please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/admin?tab=users&notice="+url.QueryEscape("User saved"))
}

func formToUser(form userForm) user.User {
	return user.User{
		ID:                form.ID,
		Name:              form.Name,
		Username:          form.Username,
		Email:             form.Email,
		Password:          form.Password,
		Role:              form.Role,
		Department:        form.Department,
		BankAccountNumber: form.BankAccountNumber,
		IsActive:          form.IsActive == "on" || form.IsActive == "true",
	}
}

func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return money.ParseAmount(raw)
}

// DeleteUser removes a user by id. Deleting your own admin account is
// blocked client-side; the backend does not enforce this rule.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/admin?tab=users")
		return
	}

	target, err := h.api.GetUser(c.Request.Context(), sess.Token, id)
	if err == nil && user.SelfDeleteBlocked(*target, sess.UserID) {
		c.Redirect(http.StatusFound, "/admin?tab=users&error="+url.QueryEscape("You cannot delete your own admin account"))
		return
	}

	if err := h.api.DeleteUser(c.Request.Context(), sess.Token, id); err != nil {
		h.logger.Error("delete user failed", "id", id, "err", err)
		c.Redirect(http.StatusFound, "/admin?tab=users&error="+url.QueryEscape("Failed to delete user. Please try again."))
		return
	}
	c.Redirect(http.StatusFound, "/admin?tab=users")
}

type loanFormPage struct {
	Username string
	Editing  bool
	Product  loan.Product
	Managers []user.User
	Error    string
}

func (h *AdminHandler) LoanFormPage(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	page := loanFormPage{Username: sess.Username}

	managers, err := h.api.UsersByRole(c.Request.Context(), sess.Token, "MANAGER")
	if err != nil {
		h.logger.Error("list managers failed", "err", err)
	} else {
		page.Managers = managers
	}

	if raw := c.Param("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.Redirect(http.StatusFound, "/admin?tab=loans")
			return
		}
		p, err := h.api.GetLoanProduct(c.Request.Context(), sess.Token, id)
		if err != nil {
			h.logger.Error("get loan product failed", "id", id, "err", err)
			c.Redirect(http.StatusFound, "/admin?tab=loans&error="+url.QueryEscape("Failed to load loan product. Please try again."))
			return
		}
		page.Editing = true
		page.Product = *p
	}

	c.HTML(http.StatusOK, "loan_form.html", page)
}

type loanForm struct {
	ID              int64  `form:"id"`
	LoanType        string `form:"loanType"`
	MaxAmount       string `form:"maxAmount"`
	InterestRate    string `form:"interestRate"`
	DurationMonths  int    `form:"durationMonths"`
	ApproverManager int64  `form:"approverManager"`
}

func (h *AdminHandler) SaveLoan(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	var form loanForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/admin?tab=loans&error="+url.QueryEscape("Invalid form submission"))
		return
	}

	maxAmount, maxErr := money.ParseAmount(form.MaxAmount)
	rate, rateErr := money.ParseAmount(form.InterestRate)
	if maxErr != nil || !maxAmount.IsPositive() || rateErr != nil || rate.IsNegative() || form.DurationMonths <= 0 {
		managers, _ := h.api.UsersByRole(c.Request.Context(), sess.Token, "MANAGER")
		c.HTML(http.StatusOK, "loan_form.html", loanFormPage{
			Username: sess.Username,
			Editing:  form.ID > 0,
			Product: loan.Product{
				ID:             form.ID,
				LoanType:       form.LoanType,
				DurationMonths: form.DurationMonths,
			},
			Managers: managers,
			Error:    "Please enter a valid max amount, interest rate and duration.",
		})
		return
	}

	in := loan.ProductInput{
		LoanType:       form.LoanType,
		MaxAmount:      maxAmount,
		InterestRate:   rate,
		DurationMonths: form.DurationMonths,
	}
	if form.ApproverManager > 0 {
		in.ApproverManager = &loan.Manager{ID: form.ApproverManager}
	}

	var err error
	if form.ID > 0 {
		err = h.api.UpdateLoanProduct(c.Request.Context(), sess.Token, form.ID, in)
	} else {
		err = h.api.CreateLoanProduct(c.Request.Context(), sess.Token, in)
	}
	if err != nil {
		h.logger.Error("save loan product failed", "id", form.ID, "err", err)
		c.Redirect(http.StatusFound, "/admin?tab=loans&error="+url.QueryEscape("Failed to save loan product. Please try again."))
		return
	}

	c.Redirect(http.StatusFound, "/admin?tab=loans&notice="+url.QueryEscape("Loan product saved"))
}

func (h *AdminHandler) DeleteLoan(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/admin?tab=loans")
		return
	}
	if err := h.api.DeleteLoanProduct(c.Request.Context(), sess.Token, id); err != nil {
		h.logger.Error("delete loan product failed", "id", id, "err", err)
		c.Redirect(http.StatusFound, "/admin?tab=loans&error="+url.QueryEscape("Failed to delete loan product. Please try again."))
		return
	}
	c.Redirect(http.StatusFound, "/admin?tab=loans")
}
