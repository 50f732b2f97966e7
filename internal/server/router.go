package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/archie46/loan-management/internal/config"
	"github.com/archie46/loan-management/internal/domain/money"
	"github.com/archie46/loan-management/internal/domain/role"
	"github.com/archie46/loan-management/internal/http/handlers"
	"github.com/archie46/loan-management/internal/http/middleware"
	"github.com/archie46/loan-management/internal/session"
	"github.com/archie46/loan-management/internal/version"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxFormBytes = 64 << 10

type Dependencies struct {
	Store          *session.Store
	AuthHandler    *handlers.AuthHandler
	AdminHandler   *handlers.AdminHandler
	ManagerHandler *handlers.ManagerHandler
	FinanceHandler *handlers.FinanceHandler
	UserHandler    *handlers.UserHandler
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestBodyLimit(maxFormBytes))
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	funcMap := template.FuncMap{
		"inr": func(v any) string {
			switch d := v.(type) {
			case decimal.Decimal:
				return money.FormatINR(d)
			case *decimal.Decimal:
				if d == nil {
					return "-"
				}
				return money.FormatINR(*d)
			}
			return ""
		},
		"date": money.FormatDate,
	}
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	health := handlers.NewHealthHandler(deps.Store)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)

	r.GET("/", func(c *gin.Context) {
		if cookie, err := c.Request.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			if sess, err := deps.Store.Get(c.Request.Context(), cookie.Value); err == nil {
				c.Redirect(http.StatusFound, sess.Landing())
				return
			}
		}
		c.Redirect(http.StatusFound, "/login")
	})

	r.GET("/login", deps.AuthHandler.LoginPage)
	r.POST("/login", deps.AuthHandler.Login)
	r.POST("/logout", deps.AuthHandler.Logout)

	authorized := r.Group("")
	authorized.Use(middleware.RequireSession(deps.Store))

	admin := authorized.Group("/admin")
	admin.Use(middleware.RequireRole(role.Admin))
	admin.GET("", deps.AdminHandler.Dashboard)
	admin.GET("/users/new", deps.AdminHandler.UserFormPage)
	admin.GET("/users/:id/edit", deps.AdminHandler.UserFormPage)
	admin.POST("/users", deps.AdminHandler.SaveUser)
	admin.POST("/users/:id/delete", deps.AdminHandler.DeleteUser)
	admin.GET("/loans/new", deps.AdminHandler.LoanFormPage)
	admin.GET("/loans/:id/edit", deps.AdminHandler.LoanFormPage)
	admin.POST("/loans", deps.AdminHandler.SaveLoan)
	admin.POST("/loans/:id/delete", deps.AdminHandler.DeleteLoan)

	manager := authorized.Group("/manager")
	manager.Use(middleware.RequireRole(role.Manager))
	manager.GET("", deps.ManagerHandler.Queue)
	manager.POST("/requests/:id/approve", deps.ManagerHandler.Approve)
	manager.POST("/requests/:id/reject", deps.ManagerHandler.Reject)

	finance := authorized.Group("/finance")
	finance.Use(middleware.RequireRole(role.Finance))
	finance.GET("", deps.FinanceHandler.Queue)
	finance.POST("/requests/:id/disburse", deps.FinanceHandler.Disburse)
	finance.GET("/requests/:id/schedule", deps.FinanceHandler.Schedule)
	finance.POST("/requests/:id/schedule/:repaymentId/paid", deps.FinanceHandler.MarkPaid)

	dashboard := authorized.Group("/dashboard")
	dashboard.Use(middleware.RequireRole(role.User))
	dashboard.GET("", deps.UserHandler.Dashboard)
	dashboard.POST("/apply", deps.UserHandler.Apply)
	dashboard.POST("/requests/:id/cancel", deps.UserHandler.Cancel)

	// Profile is open to every authenticated role.
	authorized.GET("/profile", deps.UserHandler.Profile)

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	return r
}
