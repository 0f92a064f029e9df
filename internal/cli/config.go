package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	ClientID  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("ITPREG_SERVER", "http://localhost:8080"),
		ClientID:  os.Getenv("ITPREG_CLIENT_ID"),
		Output:    "text",
		Verbose:   false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
