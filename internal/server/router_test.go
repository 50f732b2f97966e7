package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/archie46/loan-management/internal/backend"
	"github.com/archie46/loan-management/internal/config"
	"github.com/archie46/loan-management/internal/domain/loan"
	"github.com/archie46/loan-management/internal/domain/repayment"
	"github.com/archie46/loan-management/internal/domain/request"
	"github.com/archie46/loan-management/internal/domain/user"
	"github.com/archie46/loan-management/internal/http/handlers"
	"github.com/archie46/loan-management/internal/session"
)

type fakeAPI struct {
	loginResp *backend.LoginResponse
	loginErr  error

	users    []user.User
	products []loan.Product
	requests []request.LoanRequest
	reps     []repayment.Repayment
	me       *user.User

	approved   []request.Decision
	rejected   []request.Decision
	applied    []loan.Application
	cancelled  []int64
	disbursed  []int64
	markedPaid []int64
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*backend.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAPI) ListUsers(_ context.Context, _ string) ([]user.User, error) { return f.users, nil }
func (f *fakeAPI) GetUser(_ context.Context, _ string, id int64) (*user.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, errors.New("not found")
}
func (f *fakeAPI) Me(_ context.Context, _ string) (*user.User, error) { return f.me, nil }
func (f *fakeAPI) UsersByRole(_ context.Context, _, _ string) ([]user.User, error) {
	return f.users, nil
}
func (f *fakeAPI) CreateUser(_ context.Context, _ string, _ user.User) error { return nil }
func (f *fakeAPI) UpdateUser(_ context.Context, _ string, _ int64, _ user.User) error {
	return nil
}
func (f *fakeAPI) DeleteUser(_ context.Context, _ string, _ int64) error { return nil }

func (f *fakeAPI) ListLoanProducts(_ context.Context, _ string) ([]loan.Product, error) {
	return f.products, nil
}
func (f *fakeAPI) GetLoanProduct(_ context.Context, _ string, id int64) (*loan.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, errors.New("not found")
}
func (f *fakeAPI) CreateLoanProduct(_ context.Context, _ string, _ loan.ProductInput) error {
	return nil
}
func (f *fakeAPI) UpdateLoanProduct(_ context.Context, _ string, _ int64, _ loan.ProductInput) error {
	return nil
}
func (f *fakeAPI) DeleteLoanProduct(_ context.Context, _ string, _ int64) error { return nil }

func (f *fakeAPI) ApplyForLoan(_ context.Context, _ string, in loan.Application) error {
	f.applied = append(f.applied, in)
	return nil
}
func (f *fakeAPI) CancelLoanRequest(_ context.Context, _ string, requestID int64, _ string) error {
	f.cancelled = append(f.cancelled, requestID)
	return nil
}
func (f *fakeAPI) UserLoanRequests(_ context.Context, _ string, _ int64, _ string) ([]request.LoanRequest, error) {
	return f.requests, nil
}
func (f *fakeAPI) ManagerLoanRequests(_ context.Context, _ string, _ int64, _ string) ([]request.LoanRequest, error) {
	return f.requests, nil
}
func (f *fakeAPI) ApproveLoanRequest(_ context.Context, _ string, d request.Decision) error {
	f.approved = append(f.approved, d)
	return nil
}
func (f *fakeAPI) RejectLoanRequest(_ context.Context, _ string, d request.Decision) error {
	f.rejected = append(f.rejected, d)
	return nil
}

func (f *fakeAPI) AllLoanRequests(_ context.Context, _, _ string) ([]request.LoanRequest, error) {
	return f.requests, nil
}
func (f *fakeAPI) DisburseLoan(_ context.Context, _ string, id int64) error {
	f.disbursed = append(f.disbursed, id)
	return nil
}
func (f *fakeAPI) RepaymentSchedule(_ context.Context, _ string, _ int64) ([]repayment.Repayment, error) {
	return f.reps, nil
}
func (f *fakeAPI) MarkRepaymentPaid(_ context.Context, _ string, id int64) error {
	f.markedPaid = append(f.markedPaid, id)
	return nil
}
func (f *fakeAPI) UserRepayments(_ context.Context, _ string, _ int64, _ string) ([]repayment.Repayment, error) {
	return f.reps, nil
}

func testRouter(t *testing.T, api *fakeAPI) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := session.NewStore(rdb, time.Hour)

	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	cookieCfg := session.CookieConfig{}

	r := NewRouter(config.Config{Port: "0", Env: "test"}, logger, Dependencies{
		Store:          store,
		AuthHandler:    handlers.NewAuthHandler(api, store, cookieCfg, logger),
		AdminHandler:   handlers.NewAdminHandler(api, logger),
		ManagerHandler: handlers.NewManagerHandler(api, logger),
		FinanceHandler: handlers.NewFinanceHandler(api, logger),
		UserHandler:    handlers.NewUserHandler(api, logger),
	})
	return r, store
}

func sessionCookie(t *testing.T, store *session.Store, sess session.Session) *http.Cookie {
	t.Helper()
	id, _, err := store.Create(context.Background(), sess)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: id}
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginCreatesSessionAndRedirectsByRole(t *testing.T) {
	api := &fakeAPI{loginResp: &backend.LoginResponse{
		Token:    "tok",
		ID:       7,
		Username: "asha",
		Roles:    []string{"ROLE_USER", "ROLE_ADMIN"},
	}}
	r, store := testRouter(t, api)

	form := url.Values{"username": {"asha"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("admin should land on /admin, got %s", loc)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected session cookie")
	}
	sess, err := store.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.Token != "tok" || sess.UserID != 7 {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestLoginFailureShowsInvalidCredentials(t *testing.T) {
	api := &fakeAPI{loginErr: &backend.APIError{StatusCode: http.StatusUnauthorized}}
	r, _ := testRouter(t, api)

	form := url.Values{"username": {"asha"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)

	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "/login") || !strings.Contains(loc, url.QueryEscape("Invalid credentials")) {
		t.Fatalf("expected invalid credentials redirect, got %s", loc)
	}
}

func TestUnauthenticatedDashboardRedirectsToLogin(t *testing.T) {
	r, _ := testRouter(t, &fakeAPI{})
	w := do(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected login redirect, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestWrongRoleBouncesToOwnDashboard(t *testing.T) {
	r, store := testRouter(t, &fakeAPI{})
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 7, Roles: []string{"ROLE_USER"}})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	w := do(r, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("user hitting /admin should bounce to /dashboard, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestAdminDashboardRendersUsers(t *testing.T) {
	api := &fakeAPI{users: []user.User{
		{ID: 1, Name: "Asha Rao", Username: "asha", Role: "ADMIN"},
		{ID: 2, Name: "Bruno D", Username: "bruno", Role: "USER"},
	}}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 1, Roles: []string{"ROLE_ADMIN"}})

	req := httptest.NewRequest(http.MethodGet, "/admin?tab=users&q=bruno", nil)
	req.AddCookie(cookie)
	w := do(r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Bruno D") {
		t.Fatalf("expected filtered user in page")
	}
	if strings.Contains(body, "Asha Rao") {
		t.Fatalf("search should have filtered out non-matching user")
	}
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	api := &fakeAPI{users: []user.User{{ID: 1, Name: "Asha", Role: "ADMIN"}}}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 1, Roles: []string{"ROLE_ADMIN"}})

	req := httptest.NewRequest(http.MethodPost, "/admin/users/1/delete", nil)
	req.AddCookie(cookie)
	w := do(r, req)

	loc := w.Header().Get("Location")
	if !strings.Contains(loc, url.QueryEscape("You cannot delete your own admin account")) {
		t.Fatalf("expected self-delete block, got %s", loc)
	}
}

func TestManagerApproveRequiresRemarks(t *testing.T) {
	api := &fakeAPI{requests: []request.LoanRequest{
		{ID: 5, Username: "asha", LoanType: "PERSONAL", Status: request.StatusPending, RequestedAmount: decimal.RequireFromString("10000")},
	}}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "mgr", UserID: 2, Roles: []string{"ROLE_MANAGER"}})

	form := url.Values{"remarks": {"  "}, "approvedAmount": {"10000"}}
	req := httptest.NewRequest(http.MethodPost, "/manager/requests/5/approve", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w := do(r, req)

	if len(api.approved) != 0 {
		t.Fatalf("validation failure must not reach the backend")
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "request=5") || !strings.Contains(loc, "error=") {
		t.Fatalf("expected redirect back to detail with error, got %s", loc)
	}
}

func TestManagerApproveSendsDecision(t *testing.T) {
	api := &fakeAPI{requests: []request.LoanRequest{
		{ID: 5, Username: "asha", Status: request.StatusPending, RequestedAmount: decimal.RequireFromString("10000")},
	}}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "mgr", UserID: 2, Roles: []string{"ROLE_MANAGER"}})

	form := url.Values{"remarks": {"looks fine"}, "approvedAmount": {"8000"}}
	req := httptest.NewRequest(http.MethodPost, "/manager/requests/5/approve", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	do(r, req)

	if len(api.approved) != 1 {
		t.Fatalf("expected one approve call")
	}
	d := api.approved[0]
	if d.RequestID != 5 || d.ManagerID != 2 || d.Remarks != "looks fine" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if !d.ApprovedAmount.Equal(decimal.RequireFromString("8000")) {
		t.Fatalf("unexpected approved amount %s", d.ApprovedAmount)
	}
}

func TestFinanceDisburse(t *testing.T) {
	api := &fakeAPI{}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "fin", UserID: 3, Roles: []string{"ROLE_FINANCE"}})

	req := httptest.NewRequest(http.MethodPost, "/finance/requests/9/disburse", nil)
	req.AddCookie(cookie)
	w := do(r, req)

	if len(api.disbursed) != 1 || api.disbursed[0] != 9 {
		t.Fatalf("expected disburse call for 9, got %v", api.disbursed)
	}
	if !strings.Contains(w.Header().Get("Location"), "/finance") {
		t.Fatalf("expected redirect back to queue")
	}
}

func TestEmployeeApplyValidationStaysLocal(t *testing.T) {
	api := &fakeAPI{products: []loan.Product{
		{ID: 1, LoanType: "PERSONAL", MaxAmount: decimal.RequireFromString("50000")},
	}}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 7, Roles: []string{"ROLE_USER"}})

	form := url.Values{"loanId": {"1"}, "amount": {"50000.01"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w := do(r, req)

	if len(api.applied) != 0 {
		t.Fatalf("over-max apply must not reach the backend")
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "error=") || !strings.Contains(loc, "loan=1") {
		t.Fatalf("expected redirect back to form with error, got %s", loc)
	}
}

func TestEmployeeApplySubmits(t *testing.T) {
	api := &fakeAPI{products: []loan.Product{
		{ID: 1, LoanType: "PERSONAL", MaxAmount: decimal.RequireFromString("50000")},
	}}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 7, Roles: []string{"ROLE_USER"}})

	form := url.Values{"loanId": {"1"}, "amount": {"25000"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	do(r, req)

	if len(api.applied) != 1 {
		t.Fatalf("expected one apply call")
	}
	app := api.applied[0]
	if app.Username != "asha" || app.LoanType != "PERSONAL" {
		t.Fatalf("unexpected application %+v", app)
	}
}

func TestRepaymentsTabCollapsesAndExpands(t *testing.T) {
	api := &fakeAPI{
		requests: []request.LoanRequest{
			{ID: 1, LoanType: "PERSONAL", Status: request.StatusDisbursed, RequestedAmount: decimal.RequireFromString("10000")},
		},
		reps: []repayment.Repayment{
			{ID: 11, LoanRequestID: 1, RepaymentDate: "2025-01-15", EMIAmount: decimal.RequireFromString("900"), Status: "PAID"},
			{ID: 12, LoanRequestID: 1, RepaymentDate: "2025-02-15", EMIAmount: decimal.RequireFromString("900"), Status: "PENDING"},
		},
	}
	r, store := testRouter(t, api)
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 7, Roles: []string{"ROLE_USER"}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?tab=repayments", nil)
	req.AddCookie(cookie)
	w := do(r, req)
	body := w.Body.String()
	if !strings.Contains(body, "15 Feb 2025") {
		t.Fatalf("collapsed group should show the latest installment")
	}
	if strings.Contains(body, "15 Jan 2025") {
		t.Fatalf("collapsed group should hide older installments")
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard?tab=repayments&expand=1", nil)
	req.AddCookie(cookie)
	body = do(r, req).Body.String()
	if !strings.Contains(body, "15 Jan 2025") {
		t.Fatalf("expanded group should show all installments")
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	r, store := testRouter(t, &fakeAPI{})
	cookie := sessionCookie(t, store, session.Session{Token: "tok", Username: "asha", UserID: 7, Roles: []string{"ROLE_USER"}})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	w := do(r, req)

	if w.Header().Get("Location") != "/login" {
		t.Fatalf("expected login redirect after logout")
	}
	if _, err := store.Get(context.Background(), cookie.Value); err != session.ErrNotFound {
		t.Fatalf("session should be gone, got %v", err)
	}
}

func TestHealthAndReady(t *testing.T) {
	r, _ := testRouter(t, &fakeAPI{})
	if w := do(r, httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	if w := do(r, httptest.NewRequest(http.MethodGet, "/ready", nil)); w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", w.Code)
	}
}
