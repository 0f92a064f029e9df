package redis

import "time"

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// KeyPrefix namespaces lock keys when the Redis instance is shared
	KeyPrefix string

	// ConnectTimeout bounds the startup ping
	ConnectTimeout time.Duration

	// Pool settings
	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		KeyPrefix:      "itpreg",
		ConnectTimeout: 5 * time.Second,
		PoolSize:       10,
		MinIdleConns:   2,
	}
}
