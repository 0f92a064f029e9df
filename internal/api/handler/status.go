package handler

import (
	"net/http"

	"github.com/mcoot/itpreg/internal/api/response"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/services/countdown"
)

// StatusHandler exposes the registration window status
type StatusHandler struct {
	countdown *countdown.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(countdownService *countdown.Service) *StatusHandler {
	return &StatusHandler{countdown: countdownService}
}

// Status handles GET /api/v1/status
func (h *StatusHandler) Status(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.StatusFromSnapshot(h.countdown.Snapshot(), h.countdown.Window()))
}

// Options handles GET /api/v1/options
func (h *StatusHandler) Options(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Options{
		Genders:  model.Genders,
		Branches: model.Branches,
		Sections: model.Sections,
		Domains:  model.Domains,
	})
}

// SecondaryDomains handles GET /api/v1/options/secondary-domains?primary=X
func (h *StatusHandler) SecondaryDomains(w http.ResponseWriter, r *http.Request) {
	primary := r.URL.Query().Get("primary")
	if primary != "" && !model.HasOption(model.Domains, primary) {
		WriteError(w, NewInvalidRequestError("unknown primary domain"))
		return
	}
	response.JSON(w, http.StatusOK, response.SecondaryDomains{
		Primary: primary,
		Options: model.SecondaryDomainOptions(primary),
	})
}
