package http

import (
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/internal/validators"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator
	metrics   *metrics.Metrics

	// adminKeyHash is the bcrypt hash checked by the admin middleware.
	// Admin routes are not mounted when it is empty.
	adminKeyHash   string
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, m *metrics.Metrics, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		validator:      validators.NewRequestValidator(),
		metrics:        m,
		adminKeyHash:   cfg.App.AdminKeyHash,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
