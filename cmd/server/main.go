package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/scrapegate/internal/archive"
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/handler"
	"github.com/MKhiriev/scrapegate/internal/locker"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/server"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/internal/tiers"
	"github.com/MKhiriev/scrapegate/internal/workers"
	"github.com/MKhiriev/scrapegate/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := buildInfo()
	printBuildInfo(build)

	log := logger.NewLogger("scrapegate-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = build.Version
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	catalog, err := tiers.LoadFile(cfg.App.TierCatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.App.TierCatalogFile).Msg("error loading tier catalog")
	}

	lock, closeLock, err := locker.New(ctx, cfg.Storage.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating locker")
	}
	defer func() {
		if err := closeLock(); err != nil {
			log.Err(err).Msg("error closing locker")
		}
	}()

	var activityArchive archive.Archive
	if cfg.Storage.Backup.Endpoint != "" {
		minioArchive, err := archive.NewMinioArchive(cfg.Storage.Backup)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating backup archive")
		}
		if err = minioArchive.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Msg("error preparing backup bucket")
		}
		activityArchive = minioArchive
	}

	var m *metrics.Metrics
	if !cfg.Server.MetricsDisabled {
		m = metrics.New()
	}

	services, err := service.NewServices(service.Dependencies{
		Storages: storages,
		Catalog:  catalog,
		Locker:   lock,
		Archive:  activityArchive,
		Metrics:  m,
	}, *cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	w, err := workers.NewWorkers(cfg.Workers, services, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating workers")
	}
	w.Run()
	defer w.Stop()

	handlers, err := handler.NewHandlers(services, m, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func buildInfo() models.AppBuildInfo {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.Version)
	fmt.Printf("Build date: %s\n", build.Date)
	fmt.Printf("Build commit: %s\n", build.Commit)
}
