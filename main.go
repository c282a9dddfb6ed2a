// Command consolidador runs the web interface for consolidating Excel
// workbooks into a single xlsx file.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"consolidador/adapters/excel"
	"consolidador/adapters/staging"
	"consolidador/app"
	"consolidador/internal"
	"consolidador/internal/config"
	"consolidador/ui"
)

func main() {
	godotenv.Load()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("[Main] Invalid configuration: %v", err)
		os.Exit(1)
	}

	db, dialect, err := staging.Open(cfg.Database.URL, cfg.Database.DataDir)
	if err != nil {
		logger.Error("[Main] Failed to open staging database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	jobs, err := staging.NewJobRepository(context.Background(), db, dialect)
	if err != nil {
		logger.Error("[Main] Failed to prepare job repository: %v", err)
		os.Exit(1)
	}

	service := app.NewConsolidationService(
		excel.NewReader(),
		staging.NewStore(db, dialect),
		jobs,
		logger,
	)

	webApp, err := ui.NewApp(ui.Config{
		Port:        cfg.Server.Port,
		UploadDir:   cfg.Uploads.Dir,
		MaxFileSize: cfg.Uploads.MaxFileSize,
		MaxFiles:    cfg.Uploads.MaxFiles,
		SessionTTL:  cfg.Session.TTL,
	}, service, logger)
	if err != nil {
		logger.Error("[Main] Failed to build web app: %v", err)
		os.Exit(1)
	}
	defer webApp.Close()

	if err := webApp.Start(); err != nil {
		logger.Error("[Main] Server stopped: %v", err)
		os.Exit(1)
	}
}
