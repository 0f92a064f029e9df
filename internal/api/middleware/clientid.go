package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ClientIDHeader carries the caller's stable client ID
const ClientIDHeader = "X-Client-ID"

const maxClientIDLength = 128

type contextKey string

const clientIDContextKey contextKey = "client_id"

// GetClientID returns the caller's client ID from the request context
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDContextKey).(string)
	return id
}

// ClientID reads X-Client-ID, generating a fresh ID per request when absent.
// Callers that want the in-flight guard across requests must send the header.
func ClientID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ClientIDHeader))
			if id == "" || len(id) > maxClientIDLength {
				id = uuid.NewString()
			}
			w.Header().Set(ClientIDHeader, id)
			ctx := context.WithValue(r.Context(), clientIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
