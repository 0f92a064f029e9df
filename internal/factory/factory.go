package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/itpreg/internal/api"
	"github.com/mcoot/itpreg/internal/config"
	"github.com/mcoot/itpreg/internal/dependencies/clock"
	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/metrics"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/remote"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/services/registration"
	"github.com/mcoot/itpreg/internal/storage"
	"github.com/mcoot/itpreg/internal/storage/memory"
	redisstorage "github.com/mcoot/itpreg/internal/storage/redis"
	"github.com/mcoot/itpreg/internal/web"
	"github.com/mcoot/itpreg/internal/web/handler"
	"github.com/mcoot/itpreg/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageTypeMemory
	StorageTypeRedis  = config.StorageTypeRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Registrar registration.Registrar

	// Services
	Translator   *i18n.Translator
	Metrics      *metrics.Metrics
	Countdown    *countdown.Service
	Registration *registration.Service

	// Countdown stream
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster

	cfg    Config
	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Window is the registration window; zero means the built-in default
	Window model.Window
	// RemoteURL is the registration endpoint; empty means the built-in default
	RemoteURL     string
	RemoteTimeout time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the in-flight lock backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config

	SiteTitle    string
	ChatGroupURL string
	Locale       string
	StaticDir    string

	LockTTL           time.Duration
	CountdownInterval time.Duration
}

// FromSettings converts loaded settings into a factory Config
func FromSettings(c *config.Config, logger *slog.Logger) (Config, error) {
	window, err := model.NewWindow(c.Window.Start, c.Window.End)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Window:        window,
		RemoteURL:     c.Remote.URL,
		RemoteTimeout: time.Duration(c.Remote.Timeout),
		Logger:        logger,
		StorageType:   c.Storage.Type,
		SiteTitle:     c.Site.Title,
		ChatGroupURL:  c.Site.ChatGroupURL,
		Locale:        c.Site.Locale,
		StaticDir:     c.Site.StaticDir,
	}
	if c.Storage.Type == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.Storage.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	defaults := config.Default()
	if c.Window.Start.IsZero() && c.Window.End.IsZero() {
		c.Window = model.Window{Start: defaults.Window.Start, End: defaults.Window.End}
	}
	if c.RemoteURL == "" {
		c.RemoteURL = defaults.Remote.URL
	}
	if c.RemoteTimeout == 0 {
		c.RemoteTimeout = time.Duration(defaults.Remote.Timeout)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if c.StorageType == "" {
		c.StorageType = StorageTypeMemory
	}
	if c.SiteTitle == "" {
		c.SiteTitle = defaults.Site.Title
	}
	if c.Locale == "" {
		c.Locale = defaults.Site.Locale
	}
	if c.LockTTL == 0 {
		c.LockTTL = registration.DefaultLockTTL
	}
	if c.CountdownInterval == 0 {
		c.CountdownInterval = countdown.DefaultInterval
	}
	return c
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()
	clk := clock.New()

	var store storage.Storage
	switch cfg.StorageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	registrar := remote.NewClient(cfg.RemoteURL, cfg.RemoteTimeout, cfg.Logger)

	return newWithDependencies(cfg, store, clk, registrar), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg Config, store storage.Storage, clk clock.Clock, registrar registration.Registrar) *App {
	logger := cfg.Logger
	tr := i18n.NewTranslator(cfg.Locale, logger)
	m := metrics.New()

	countdownService := countdown.New(cfg.Window, clk, logger)
	registrationService := registration.New(countdownService, store, registrar, tr, m, registration.Config{
		ChatGroupURL:  cfg.ChatGroupURL,
		LockTTL:       cfg.LockTTL,
		RemoteTimeout: cfg.RemoteTimeout,
	}, logger)

	hub := sse.NewHub(logger, func(n int) { m.StreamClients.Set(float64(n)) })
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, sse.NewRenderer(tr), logger)

	m.SetStatus(countdownService.Status())

	return &App{
		Storage:      store,
		Clock:        clk,
		Registrar:    registrar,
		Translator:   tr,
		Metrics:      m,
		Countdown:    countdownService,
		Registration: registrationService,
		Hub:          hub,
		Broadcaster:  broadcaster,
		cfg:          cfg,
		logger:       logger,
	}
}

// Handler returns the combined web, API and metrics handler
func (a *App) Handler() http.Handler {
	r := mux.NewRouter()
	api.Mount(r, api.RouterConfig{
		Logger:       a.logger,
		Countdown:    a.Countdown,
		Registration: a.Registration,
		Storage:      a.Storage,
		Metrics:      a.Metrics,
	})
	r.PathPrefix("/").Handler(web.NewRouter(web.RouterConfig{
		Logger:       a.logger,
		Countdown:    a.Countdown,
		Registration: a.Registration,
		Translator:   a.Translator,
		Hub:          a.Hub,
		Metrics:      a.Metrics,
		Site: handler.Site{
			Title:        a.cfg.SiteTitle,
			ChatGroupURL: a.cfg.ChatGroupURL,
		},
		StaticDir: a.cfg.StaticDir,
	}))
	return r
}

// RunCountdown publishes countdown snapshots to the stream until registration
// ends or ctx is cancelled. Open streams are closed either way.
func (a *App) RunCountdown(ctx context.Context) error {
	err := a.Countdown.Run(ctx, a.cfg.CountdownInterval, func(snap model.Snapshot) {
		a.Metrics.SetStatus(snap.Status)
		a.Broadcaster.Publish(snap)
	})
	if err != nil {
		a.Hub.Close()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	// Ended: the hub stops by itself once the final event is delivered
	select {
	case <-a.Hub.Stopped():
	case <-ctx.Done():
		a.Hub.Close()
	}
	return nil
}

// Close releases the app's resources
func (a *App) Close() error {
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
