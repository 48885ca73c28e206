package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/scrapegate/internal/adapter"
	"github.com/MKhiriev/scrapegate/internal/client"
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewClientLogger("scrapegate-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.ServerURL, cfg.RequestTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	app := client.NewApp(serverAdapter, client.NewKeyringSessionStore(), *cfg, buildInfo(), os.Stdout, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx, os.Args[1:]); err != nil {
		stop()
		if errors.Is(err, client.ErrUsage) {
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("client run error")
	}
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
