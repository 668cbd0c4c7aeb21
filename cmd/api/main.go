package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cfi/internal/config"
	"github.com/MrJamesThe3rd/cfi/internal/encoding"
	cfiHttp "github.com/MrJamesThe3rd/cfi/internal/http"
	reportHandler "github.com/MrJamesThe3rd/cfi/internal/http/report"
	"github.com/MrJamesThe3rd/cfi/internal/importer"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
	truthStore "github.com/MrJamesThe3rd/cfi/internal/truth/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	decoder := encoding.NewDecoder(cfg.Report.PrimaryEncoding, cfg.Report.FallbackEncoding)

	var (
		truthService  = truth.NewService(truthStore.New(cfg.Truth.Path, cfg.Truth.BackupDir, decoder))
		importService = importer.NewService(cfg)
	)

	reportH := reportHandler.NewHandler(importService, truthService, decoder, cfg.Server.MaxUploadBytes)

	router := cfiHttp.New(cfiHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, reportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port, "truth", cfg.Truth.Path)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
