package observability

import (
	"log/slog"
	"os"
)

func NewLogger(env string) *slog.Logger {
	if env == "prod" || env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "loan-management-web")
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// Component returns a child logger tagged for one part of the app,
// e.g. "backend" for API client failures surfaced only to diagnostics.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}
