package handler

import (
	"net/http"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/web/sse"
	"github.com/mcoot/itpreg/internal/web/templates/pages"
)

// HomeHandler handles the landing page
type HomeHandler struct {
	countdown *countdown.Service
	renderer  *sse.Renderer
	tr        *i18n.Translator
	site      Site
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(countdownService *countdown.Service, renderer *sse.Renderer, tr *i18n.Translator, site Site) *HomeHandler {
	return &HomeHandler{
		countdown: countdownService,
		renderer:  renderer,
		tr:        tr,
		site:      site,
	}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	snap := h.countdown.Snapshot()

	data := pages.HomeData{
		PageData:  h.site.pageData(r, ""),
		Heading:   h.site.Title,
		Tagline:   h.tr.T(i18n.MsgTagline, nil),
		Countdown: h.renderer.CountdownData(snap),
		CTALabel:  h.renderer.CTALabel(),
	}
	if snap.Status != model.StatusEnded {
		data.StreamURL = "/events/countdown"
	}

	render(w, r, http.StatusOK, pages.Home(data))
}
