package handler

import (
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/handler/grpc"
	"github.com/MKhiriev/scrapegate/internal/handler/http"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a transport handler for every configured address. m
// may be nil, in which case /metrics is not served.
func NewHandlers(services *service.Services, m *metrics.Metrics, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, m, cfg, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
