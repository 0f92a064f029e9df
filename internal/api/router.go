package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/itpreg/internal/api/apierr"
	"github.com/mcoot/itpreg/internal/api/handler"
	"github.com/mcoot/itpreg/internal/api/middleware"
	"github.com/mcoot/itpreg/internal/metrics"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/services/registration"
	"github.com/mcoot/itpreg/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Countdown    *countdown.Service
	Registration *registration.Service
	Storage      storage.Storage
	Metrics      *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount adds the API routes and /metrics to an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(cfg.Storage, cfg.Logger)
	statusHandler := handler.NewStatusHandler(cfg.Countdown)
	registrationHandler := handler.NewRegistrationHandler(cfg.Registration)

	var observe func(method string, status int, d time.Duration)
	if cfg.Metrics != nil {
		observe = cfg.Metrics.RequestObserver("api")
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger, observe))

	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/status", statusHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/options", statusHandler.Options).Methods(http.MethodGet)
	api.HandleFunc("/options/secondary-domains", statusHandler.SecondaryDomains).Methods(http.MethodGet)

	registrations := api.PathPrefix("/registrations").Subrouter()
	registrations.Use(middleware.ClientID())
	registrations.HandleFunc("", registrationHandler.Create).Methods(http.MethodPost)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
}
