package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/itpreg/internal/middleware"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Error</title><link rel="stylesheet" href="/static/css/site.css"></head>
<body>
<main class="container">
<h1>Something went wrong</h1>
<p>Please try again in a moment.</p>
<p><a href="/">Back to the countdown</a></p>
</main>
</body>
</html>`))
}
