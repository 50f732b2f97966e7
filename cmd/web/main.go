package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/archie46/loan-management/internal/backend"
	"github.com/archie46/loan-management/internal/config"
	"github.com/archie46/loan-management/internal/http/handlers"
	"github.com/archie46/loan-management/internal/observability"
	"github.com/archie46/loan-management/internal/server"
	"github.com/archie46/loan-management/internal/session"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	rdb, err := session.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("failed to connect redis", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	store := session.NewStore(rdb, cfg.SessionTTL)
	api := backend.New(cfg.APIBaseURL, cfg.APITimeout)
	cookieCfg := session.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}

	r := server.NewRouter(cfg, logger, server.Dependencies{
		Store:          store,
		AuthHandler:    handlers.NewAuthHandler(api, store, cookieCfg, observability.Component(logger, "auth")),
		AdminHandler:   handlers.NewAdminHandler(api, observability.Component(logger, "admin")),
		ManagerHandler: handlers.NewManagerHandler(api, observability.Component(logger, "manager")),
		FinanceHandler: handlers.NewFinanceHandler(api, observability.Component(logger, "finance")),
		UserHandler:    handlers.NewUserHandler(api, observability.Component(logger, "user")),
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("web server starting", "addr", cfg.Addr(), "api", cfg.APIBaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("web server stopped")
}
