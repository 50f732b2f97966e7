package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/archie46/loan-management/internal/backend"
	"github.com/archie46/loan-management/internal/session"
)

type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResponse, error)
}

type AuthHandler struct {
	api       AuthAPI
	store     *session.Store
	cookieCfg session.CookieConfig
	logger    *slog.Logger
}

func NewAuthHandler(api AuthAPI, store *session.Store, cookieCfg session.CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{api: api, store: store, cookieCfg: cookieCfg, logger: logger}
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	// An already-authenticated browser goes straight to its dashboard.
	if cookie, err := c.Request.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if sess, err := h.store.Get(c.Request.Context(), cookie.Value); err == nil {
			c.Redirect(http.StatusFound, sess.Landing())
			return
		}
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error": c.Query("error"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape("Username and password are required"))
		return
	}

	resp, err := h.api.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.logger.Warn("login failed", "username", form.Username, "err", err)
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape("Invalid credentials"))
		return
	}

	sess := session.Session{
		Token:    resp.Token,
		Username: resp.Username,
		UserID:   resp.ID,
		Roles:    resp.Roles,
	}
	id, ttl, err := h.store.Create(c.Request.Context(), sess)
	if err != nil {
		h.logger.Error("session create failed", "err", err)
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape("Unable to start session"))
		return
	}

	session.SetSessionCookie(c.Writer, h.cookieCfg, id, ttl)
	c.Redirect(http.StatusFound, sess.Landing())
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Request.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.store.Delete(c.Request.Context(), cookie.Value); err != nil {
			h.logger.Warn("session delete failed", "err", err)
		}
	}
	session.ClearSessionCookie(c.Writer, h.cookieCfg)
	c.Redirect(http.StatusFound, "/login")
}
