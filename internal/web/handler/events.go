package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/web/middleware"
	"github.com/mcoot/itpreg/internal/web/sse"
)

// EventsHandler serves the countdown event stream
type EventsHandler struct {
	countdown *countdown.Service
	hub       *sse.Hub
	renderer  *sse.Renderer
	logger    *slog.Logger
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(countdownService *countdown.Service, hub *sse.Hub, renderer *sse.Renderer, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		countdown: countdownService,
		hub:       hub,
		renderer:  renderer,
		logger:    logger.With(slog.String("component", "events")),
	}
}

// Countdown streams a countdown event every second and a final ended event
func (h *EventsHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	snap := h.countdown.Snapshot()
	initial, err := h.renderer.RenderEvent(r.Context(), snap)
	if err != nil {
		h.logger.Error("failed to render countdown", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if snap.Status == model.StatusEnded {
		sse.ServeOnce(w, initial)
		return
	}
	sse.ServeSSE(w, r, h.hub, middleware.GetClientID(r.Context()), initial)
}
