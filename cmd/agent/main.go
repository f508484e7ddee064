// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/client"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	bootLog := logger.NewLogger("offline-sync-agent")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.New("offline-sync-agent", logger.Options{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	log.Debug().
		Str("storage_driver", cfg.Storage.Driver).
		Str("backend", cfg.Adapter.HTTPAddress).
		Str("listen", cfg.Server.HTTPAddress).
		Any("engine", cfg.Engine).
		Msg("received configs")

	app, err := client.NewApp(context.Background(), cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating agent")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("agent exited with error")
	}
}
