package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Default registration window for the induction programme (IST)
var (
	defaultWindowStart = time.Date(2025, 2, 13, 17, 0, 0, 0, ist)
	defaultWindowEnd   = time.Date(2025, 2, 18, 23, 59, 59, 0, ist)
	ist                = time.FixedZone("IST", 5*60*60+30*60)
)

// Config is the server configuration
type Config struct {
	Server   ServerConfig  `toml:"server"`
	Window   WindowConfig  `toml:"window"`
	Remote   RemoteConfig  `toml:"remote"`
	Storage  StorageConfig `toml:"storage"`
	Site     SiteConfig    `toml:"site"`
	LogLevel string        `toml:"log_level"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// WindowConfig is the registration window
type WindowConfig struct {
	Start time.Time `toml:"start"`
	End   time.Time `toml:"end"`
}

// RemoteConfig points at the external registration API
type RemoteConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// StorageConfig selects the in-flight lock backend
type StorageConfig struct {
	Type     string `toml:"type"`
	RedisURL string `toml:"redis_url"`
}

// SiteConfig holds presentation settings
type SiteConfig struct {
	Title string `toml:"title"`
	// ChatGroupURL is where students land after registering (optional)
	ChatGroupURL string `toml:"chat_group_url"`
	Locale       string `toml:"locale"`
	StaticDir    string `toml:"static_dir"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Window: WindowConfig{Start: defaultWindowStart, End: defaultWindowEnd},
		Remote: RemoteConfig{
			URL:     "https://rfbe.vercel.app/api/v1/students/newregestration",
			Timeout: Duration(15 * time.Second),
		},
		Storage:  StorageConfig{Type: StorageTypeMemory},
		Site:     SiteConfig{Title: "Introduction To Programming", Locale: "en"},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, an optional TOML file and the environment
// The file path comes from ITPREG_CONFIG; a missing .env file is ignored.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("ITPREG_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeFile decodes a TOML file over the current values
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ITPREG_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("ITPREG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: ITPREG_PORT invalid (%q): %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("ITPREG_WINDOW_START"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("config: ITPREG_WINDOW_START invalid (%q): %w", v, err)
		}
		c.Window.Start = t
	}
	if v := os.Getenv("ITPREG_WINDOW_END"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("config: ITPREG_WINDOW_END invalid (%q): %w", v, err)
		}
		c.Window.End = t
	}
	if v := os.Getenv("ITPREG_REMOTE_URL"); v != "" {
		c.Remote.URL = v
	}
	if v := os.Getenv("ITPREG_REMOTE_TIMEOUT"); v != "" {
		if err := c.Remote.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: ITPREG_REMOTE_TIMEOUT invalid (%q): %w", v, err)
		}
	}
	if v := os.Getenv("ITPREG_STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("ITPREG_CHAT_GROUP_URL"); v != "" {
		c.Site.ChatGroupURL = v
	}
	if v := os.Getenv("ITPREG_LOCALE"); v != "" {
		c.Site.Locale = v
	}
	if v := os.Getenv("ITPREG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Server.Port)
	}

	if c.Window.End.Before(c.Window.Start) {
		return errors.New("config: window end is before start")
	}

	parsed, err := url.Parse(c.Remote.URL)
	if err != nil {
		return fmt.Errorf("config: remote url invalid (%q): %w", c.Remote.URL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: remote url invalid (%q): scheme or host missing", c.Remote.URL)
	}

	if c.Remote.Timeout <= 0 {
		return errors.New("config: remote timeout must be positive")
	}

	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if strings.TrimSpace(c.Storage.RedisURL) == "" {
			return errors.New("config: REDIS_URL required when storage type is redis")
		}
	default:
		return fmt.Errorf("config: invalid storage type %q: must be 'memory' or 'redis'", c.Storage.Type)
	}

	if c.Site.ChatGroupURL != "" && !strings.HasPrefix(c.Site.ChatGroupURL, "https://") {
		return fmt.Errorf("config: chat group url must be https (%q)", c.Site.ChatGroupURL)
	}

	return nil
}

// Duration is a time.Duration that decodes from strings like "15s"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
