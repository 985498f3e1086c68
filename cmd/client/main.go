package main

import (
	"fmt"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/client"
	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/internal/tui"
	"github.com/MKhiriev/crowdblog-auth/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).Normalized()
	printBuildInfo(buildInfo)

	log := logger.NewClientLogger("crowdblog-auth-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	session := &models.ClientSession{}
	services := service.NewClientServices(serverAdapter, session, log)

	ui, err := tui.New(services, session, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, session, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
