package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// API Server
	APIHost string
	APIPort string

	// Storage
	StorageType string // "memory", "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// GitHub
	EnableMockAPI    bool
	GitHubToken      string
	GitHubAPIURL     string
	GitHubAPIVersion string
	GitHubOrg        string
	GitHubTeamSlug   string

	// Seeding
	SeedSampleData bool

	// CLI
	APIEndpoint string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		APIHost:          getEnv("API_HOST", "localhost"),
		APIPort:          getEnv("API_PORT", "8080"),
		StorageType:      getEnv("STORAGE_TYPE", "memory"),
		SQLitePath:       getEnv("SQLITE_PATH", "./dashboard.db"),
		PostgresURL:      getEnv("POSTGRES_URL", ""),
		EnableMockAPI:    getBoolEnv("ENABLE_MOCK_API", true),
		GitHubToken:      getEnv("GITHUB_API_TOKEN", ""),
		GitHubAPIURL:     getEnv("GITHUB_API_URL", ""),
		GitHubAPIVersion: getEnv("GITHUB_API_VERSION", "2022-11-28"),
		GitHubOrg:        getEnv("GITHUB_ORG", ""),
		GitHubTeamSlug:   getEnv("GITHUB_TEAM_SLUG", ""),
		SeedSampleData:   getBoolEnv("SEED_SAMPLE_DATA", true),
		APIEndpoint:      getEnv("API_ENDPOINT", "http://localhost:8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv parses a boolean environment variable, falling back to the
// default on absence or an unparsable value
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.StorageType {
	case "memory", "sqlite", "postgres":
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'memory', 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	if !c.EnableMockAPI && c.GitHubOrg == "" {
		return &ConfigError{Field: "GITHUB_ORG", Message: "organization is required when the mock API is disabled"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
