package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/remote"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/services/registration"
	"github.com/mcoot/itpreg/internal/web/middleware"
	"github.com/mcoot/itpreg/internal/web/templates/components"
	"github.com/mcoot/itpreg/internal/web/templates/pages"
)

// chatRedirectDelay is how long the success notice shows before the
// browser moves on to the chat group, in seconds
const chatRedirectDelay = 3

// RegisterHandler handles the registration form
type RegisterHandler struct {
	countdown    *countdown.Service
	registration *registration.Service
	tr           *i18n.Translator
	site         Site
	logger       *slog.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(countdownService *countdown.Service, registrationService *registration.Service, tr *i18n.Translator, site Site, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		countdown:    countdownService,
		registration: registrationService,
		tr:           tr,
		site:         site,
		logger:       logger.With(slog.String("component", "register-handler")),
	}
}

// Page renders an empty form, or the closed notice outside the window
func (h *RegisterHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := h.formData(r, nil)

	// A success flash means we just registered; offer the chat group
	if data.Flash != nil && data.Flash.Type == middleware.FlashSuccess && h.site.ChatGroupURL != "" {
		data.ChatGroupURL = h.site.ChatGroupURL
		data.RedirectURL = h.site.ChatGroupURL
		data.RedirectDelay = chatRedirectDelay
	}

	render(w, r, http.StatusOK, pages.Register(data))
}

// Submit validates the form and forwards it to the remote registration API
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := h.formData(r, nil)
		data.Notice = h.registration.Describe(err)
		render(w, r, http.StatusBadRequest, pages.Register(data))
		return
	}

	raw := formRegistration(r.PostForm)
	values := raw.Values()

	outcome, err := h.registration.Submit(r.Context(), middleware.GetClientID(r.Context()), raw)
	if err == nil {
		middleware.SetFlash(w, middleware.FlashSuccess, outcome.Message)
		redirect(w, r, "/register")
		return
	}

	if errors.Is(err, model.ErrRegistrationClosed) {
		middleware.SetFlash(w, middleware.FlashError, h.registration.Describe(err))
		redirect(w, r, "/register")
		return
	}

	data := h.formData(r, values)
	data.Notice = h.registration.Describe(err)

	var validationErr *registration.ValidationError
	if errors.As(err, &validationErr) {
		data.Errors = validationErr.Fields
	}

	render(w, r, failureStatus(err), pages.Register(data))
}

// SecondaryOptions re-renders the secondary domain select without the primary
func (h *RegisterHandler) SecondaryOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	options, keep := registration.SecondaryOptions(q.Get(model.FieldPrimaryDomain), q.Get(model.FieldSecondaryDomain))
	render(w, r, http.StatusOK, components.SecondaryDomainSelect(options, keep, ""))
}

func (h *RegisterHandler) formData(r *http.Request, values map[string]string) pages.RegisterData {
	if values == nil {
		values = map[string]string{}
	}
	options, keep := registration.SecondaryOptions(values[model.FieldPrimaryDomain], values[model.FieldSecondaryDomain])
	values[model.FieldSecondaryDomain] = keep

	return pages.RegisterData{
		PageData:         h.site.pageData(r, "Register"),
		Open:             h.countdown.Status() == model.StatusLive,
		ClosedMessage:    h.closedMessage(),
		Values:           values,
		SecondaryOptions: options,
	}
}

func (h *RegisterHandler) closedMessage() string {
	if h.countdown.Status() == model.StatusEnded {
		return h.tr.StatusText(model.StatusEnded)
	}
	return h.tr.T(i18n.MsgRegistrationClosed, nil)
}

func formRegistration(form url.Values) model.Registration {
	values := make(map[string]string, len(model.Fields))
	for _, field := range model.Fields {
		values[field] = form.Get(field)
	}
	return model.RegistrationFromValues(values)
}

// failureStatus maps a submission error to the status of the re-rendered form.
// Remote 4xx rejections are the user's to fix, so they share 422 with local
// validation failures.
func failureStatus(err error) int {
	var remoteErr *remote.Error
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &remoteErr) && remoteErr.Status >= 400 && remoteErr.Status < 500:
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, model.ErrRemoteRejected), errors.Is(err, model.ErrRemoteUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
