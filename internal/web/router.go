package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/metrics"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/services/registration"
	"github.com/mcoot/itpreg/internal/web/handler"
	"github.com/mcoot/itpreg/internal/web/middleware"
	"github.com/mcoot/itpreg/internal/web/sse"
)

//go:embed static
var staticFS embed.FS

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	Countdown    *countdown.Service
	Registration *registration.Service
	Translator   *i18n.Translator
	Hub          *sse.Hub
	Metrics      *metrics.Metrics
	Site         handler.Site
	// StaticDir serves assets from disk instead of the embedded copy
	StaticDir string
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	var observe func(method string, status int, d time.Duration)
	if cfg.Metrics != nil {
		observe = cfg.Metrics.RequestObserver("web")
	}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger, observe))

	renderer := sse.NewRenderer(cfg.Translator)
	homeHandler := handler.NewHomeHandler(cfg.Countdown, renderer, cfg.Translator, cfg.Site)
	registerHandler := handler.NewRegisterHandler(cfg.Countdown, cfg.Registration, cfg.Translator, cfg.Site, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.Countdown, cfg.Hub, renderer, cfg.Logger)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticHandler(cfg.StaticDir)))

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())
	pages.Use(middleware.ClientID())

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/events/countdown", eventsHandler.Countdown).Methods(http.MethodGet)
	pages.HandleFunc("/register", registerHandler.Page).Methods(http.MethodGet)
	pages.HandleFunc("/register", registerHandler.Submit).Methods(http.MethodPost)
	pages.HandleFunc("/register/secondary-options", registerHandler.SecondaryOptions).Methods(http.MethodGet)

	return r
}

func staticHandler(dir string) http.Handler {
	if dir != "" {
		return http.FileServer(http.Dir(dir))
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}
