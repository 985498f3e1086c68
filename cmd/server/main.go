package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/handler"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/server"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("crowdblog-auth-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// secrets carry json:"-" and are left out
	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	adapters := adapter.NewAdapters(cfg.Adapter, log)

	services, err := service.NewServices(storages, adapters, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, storages.HealthChecker, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).Normalized()

	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
