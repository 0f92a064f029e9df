package factory

import (
	"time"

	"github.com/mcoot/itpreg/internal/config"
	"github.com/mcoot/itpreg/internal/dependencies/mocks"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/remote"
	"github.com/mcoot/itpreg/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Window    model.Window
}

// TestWindow is the default registration window
func TestWindow() model.Window {
	d := config.Default()
	return model.Window{Start: d.Window.Start, End: d.Window.End}
}

// NewTestApp creates an App with a mock clock set inside the registration
// window, memory storage and a remote client pointed at remoteURL.
func NewTestApp(remoteURL string, opts ...func(*Config)) *TestApp {
	window := TestWindow()
	mockClock := mocks.NewMockClock(window.Start.Add(time.Hour))

	cfg := Config{
		Window:    window,
		RemoteURL: remoteURL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	store := memory.New(mockClock)
	registrar := remote.NewClient(cfg.RemoteURL, cfg.RemoteTimeout, cfg.Logger)

	return &TestApp{
		App:       newWithDependencies(cfg, store, mockClock, registrar),
		MockClock: mockClock,
		Window:    window,
	}
}

// WithChatGroup configures a chat group link
func WithChatGroup(url string) func(*Config) {
	return func(c *Config) { c.ChatGroupURL = url }
}

// SetBeforeWindow moves the clock to before registration opens
func (t *TestApp) SetBeforeWindow() {
	t.MockClock.Set(t.Window.Start.Add(-time.Hour))
}

// SetLive moves the clock inside the registration window
func (t *TestApp) SetLive() {
	t.MockClock.Set(t.Window.Start.Add(time.Hour))
}

// SetAfterWindow moves the clock to after registration closes
func (t *TestApp) SetAfterWindow() {
	t.MockClock.Set(t.Window.End.Add(time.Second))
}
