package handler

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/itpreg/internal/web/middleware"
	"github.com/mcoot/itpreg/internal/web/templates/layout"
)

// Site holds the site-wide settings pages need
type Site struct {
	Title        string
	ChatGroupURL string
}

func (s Site) pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:     title,
		SiteTitle: s.Title,
		Flash:     middleware.GetFlash(r.Context()),
	}
}

// render buffers the component so a render failure can still become a 500
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect uses HX-Redirect for htmx requests so the browser does a full navigation
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
