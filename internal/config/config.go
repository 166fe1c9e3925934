package config

import (
	"os"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// CatalogConfig holds ability catalog configuration
type CatalogConfig struct {
	// Path points at an external catalog JSON file. Empty means the
	// embedded table.
	Path string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnvOrDefault("SHEET_LISTEN_ADDR", ":8080"),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("SHEET_CATALOG_PATH"),
		},
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
