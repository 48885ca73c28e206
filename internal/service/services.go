package service

import (
	"github.com/MKhiriev/scrapegate/internal/archive"
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/locker"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/internal/tiers"
)

// Services aggregates every service the transport layer calls.
type Services struct {
	AccessService  AccessService
	TokenService   TokenService
	BackupService  BackupService
	ContactService ContactService
	SessionService SessionService
	AppInfoService AppInfoService
	HealthService  HealthService

	Catalog *tiers.Catalog
}

// Dependencies are the collaborators NewServices wires together. Archive and
// Metrics are optional.
type Dependencies struct {
	Storages *store.Storages
	Catalog  *tiers.Catalog
	Locker   locker.Locker
	Archive  archive.Archive
	Metrics  *metrics.Metrics
	Clock    Clock
	IDs      IDGenerator
}

func NewServices(deps Dependencies, cfg config.StructuredConfig) (*Services, error) {
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	if deps.IDs == nil {
		deps.IDs = NewIDGenerator()
	}
	if deps.Locker == nil {
		deps.Locker = locker.NewKeyedMutex()
	}

	appInfo, err := NewAppInfoService(cfg)
	if err != nil {
		return nil, err
	}

	core := NewCore(deps.Storages, deps.Catalog, cfg.Policy, deps.Clock, deps.IDs)
	return &Services{
		AccessService:  NewAccessService(core, deps.Locker, cfg.App, deps.Metrics),
		TokenService:   NewTokenService(cfg.App),
		BackupService:  NewBackupService(deps.Storages.Activity, deps.Archive, deps.Clock),
		ContactService: NewContactService(deps.Storages.Contact, deps.Clock),
		SessionService: core.Sessions,
		AppInfoService: appInfo,
		HealthService:  deps.Storages,
		Catalog:        deps.Catalog,
	}, nil
}
