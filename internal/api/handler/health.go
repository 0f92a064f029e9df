package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/itpreg/internal/api/response"
	"github.com/mcoot/itpreg/internal/storage"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether the server and its lock store are reachable
type HealthHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Storage, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{storage: store, logger: logger}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("health check: storage unreachable", slog.Any("error", err))
		WriteError(w, NewServiceUnavailableError("storage unreachable"))
		return
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
