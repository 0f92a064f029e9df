package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	clientCookieName   = "itpreg_client"
	clientIDContextKey = contextKey("client_id")
	clientCookieMaxAge = 60 * 60 * 24 * 30
)

// GetClientID returns the browser's client ID from the request context
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDContextKey).(string)
	return id
}

// ClientID returns middleware that gives every browser a stable random ID.
// The ID keys the per-client submission guard.
func ClientID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(clientCookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     clientCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   clientCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), clientIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
