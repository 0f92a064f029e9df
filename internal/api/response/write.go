package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response
// Responses are never cached: status and remaining time change every second.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
