package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-check service name reported next to the
// server-wide ("") entry.
const ServiceName = "scrapegate.Access"

const (
	defaultProbeInterval = 15 * time.Second
	probeTimeout         = 3 * time.Second
)

// Handler is the root gRPC transport handler.
//
// It serves the standard gRPC health protocol. The reported status follows
// the reachability of the backing store, probed periodically by [Watch].
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health        *health.Server
	probeInterval time.Duration

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger. Both health entries start as NOT_SERVING until the first probe.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Handler{
		services:      services,
		health:        hs,
		probeInterval: defaultProbeInterval,
		logger:        logger,
	}
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Watch probes the store immediately and then every probe interval until
// ctx is done.
func (h *Handler) Watch(ctx context.Context) {
	h.Probe(ctx)

	ticker := time.NewTicker(h.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// Probe pings the store once and publishes the result.
func (h *Handler) Probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if h.services == nil || h.services.HealthService == nil {
		status = healthpb.HealthCheckResponse_UNKNOWN
	} else {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := h.services.HealthService.Ping(pctx)
		cancel()
		if err != nil {
			h.logger.Warn().Err(err).Msg("store health probe failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Shutdown marks every service NOT_SERVING so that watchers see the server
// going away before connections close.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
