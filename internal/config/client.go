package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

// ClientConfig configures the command-line client.
type ClientConfig struct {
	// ServerURL is the base URL of the scrapegate HTTP API.
	// Env: SCRAPEGATE_SERVER_URL
	ServerURL string `env:"SCRAPEGATE_SERVER_URL" envDefault:"http://localhost:8080"`

	// RequestTimeout bounds every call to the server.
	// Env: SCRAPEGATE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"SCRAPEGATE_REQUEST_TIMEOUT" envDefault:"15s"`

	// AdminKey is sent with admin commands.
	// Env: SCRAPEGATE_ADMIN_KEY
	AdminKey string `env:"SCRAPEGATE_ADMIN_KEY"`

	// DeviceID overrides the identifier generated and kept in the keyring.
	// Env: SCRAPEGATE_DEVICE_ID
	DeviceID string `env:"SCRAPEGATE_DEVICE_ID"`
}

// GetClientConfig reads the client settings from a .env file, if present,
// and the environment.
func GetClientConfig() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}
	return cfg, nil
}
