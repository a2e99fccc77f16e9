package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	StorageType string
	RedisURL    string
	Verbose     bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("TRIVIA_SERVER", "http://localhost:8080"),
		StorageType: getEnvOrDefault("TRIVIA_STORAGE", "redis"),
		RedisURL:    getEnvOrDefault("TRIVIA_REDIS_URL", "redis://localhost:6379"),
		Verbose:     false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
