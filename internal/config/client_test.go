package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientConfig_Defaults(t *testing.T) {
	t.Setenv("SCRAPEGATE_SERVER_URL", "")
	t.Setenv("SCRAPEGATE_REQUEST_TIMEOUT", "")
	t.Setenv("SCRAPEGATE_ADMIN_KEY", "")
	t.Setenv("SCRAPEGATE_DEVICE_ID", "")

	cfg, err := GetClientConfig()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.AdminKey)
	assert.Empty(t, cfg.DeviceID)
}

func TestGetClientConfig_FromEnv(t *testing.T) {
	t.Setenv("SCRAPEGATE_SERVER_URL", "https://gate.example.com")
	t.Setenv("SCRAPEGATE_REQUEST_TIMEOUT", "3s")
	t.Setenv("SCRAPEGATE_ADMIN_KEY", "k3y")
	t.Setenv("SCRAPEGATE_DEVICE_ID", "laptop-1")

	cfg, err := GetClientConfig()

	require.NoError(t, err)
	assert.Equal(t, "https://gate.example.com", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "k3y", cfg.AdminKey)
	assert.Equal(t, "laptop-1", cfg.DeviceID)
}

func TestGetClientConfig_BadDuration(t *testing.T) {
	t.Setenv("SCRAPEGATE_REQUEST_TIMEOUT", "soon")

	_, err := GetClientConfig()

	require.Error(t, err)
}
