package service

import (
	"context"

	"github.com/MKhiriev/scrapegate/internal/config"
)

type appInfoService struct {
	appVersion   string
	capabilities config.Capabilities
}

func NewAppInfoService(cfg config.StructuredConfig) (AppInfoService, error) {
	if cfg.App.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion:   cfg.App.Version,
		capabilities: cfg.Capabilities(),
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

func (s *appInfoService) GetCapabilities(ctx context.Context) config.Capabilities {
	return s.capabilities
}
