package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/itpreg/internal/middleware"
)

// Logging creates logging middleware for the API.
// Metrics scrapes are logged at debug level.
func Logging(logger *slog.Logger, observe middleware.Observer) func(http.Handler) http.Handler {
	return middleware.Logging(logger, middleware.LoggingOptions{
		QuietPrefixes: []string{"/metrics"},
		Observe:       observe,
	})
}
