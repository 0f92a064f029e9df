package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/itpreg/internal/api/middleware"
	"github.com/mcoot/itpreg/internal/api/request"
	"github.com/mcoot/itpreg/internal/api/response"
	"github.com/mcoot/itpreg/internal/services/registration"
)

// RegistrationHandler accepts registration submissions
type RegistrationHandler struct {
	registration *registration.Service
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{registration: registrationService}
}

// Create handles POST /api/v1/registrations
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, request.MaxBodyBytes)

	var req request.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, NewInvalidRequestError("request body too large"))
			return
		}
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome, err := h.registration.Submit(r.Context(), middleware.GetClientID(r.Context()), req.Registration)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Registration{
		Message:     outcome.Message,
		RedirectURL: outcome.RedirectURL,
	})
}
