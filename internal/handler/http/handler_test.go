package http

import (
	"testing"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	m := metrics.New()
	log := logger.Nop()
	cfg := config.StructuredConfig{
		App:    config.App{AdminKeyHash: "hash"},
		Server: config.Server{RequestTimeout: 5},
	}

	h := NewHandler(svc, m, cfg, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Same(t, m, h.metrics)
	assert.Same(t, log, h.logger)
	assert.Equal(t, "hash", h.adminKeyHash)
	assert.EqualValues(t, 5, h.requestTimeout)
	assert.NotNil(t, h.validator)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, nil, config.StructuredConfig{}, logger.Nop())
	h2 := NewHandler(&service.Services{}, nil, config.StructuredConfig{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}
