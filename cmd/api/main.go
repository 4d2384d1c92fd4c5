package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/shopledger/internal/app"
	"github.com/MrJamesThe3rd/shopledger/internal/config"
	shopHttp "github.com/MrJamesThe3rd/shopledger/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/shopledger/internal/http/category"
	entryHandler "github.com/MrJamesThe3rd/shopledger/internal/http/entry"
	exportHandler "github.com/MrJamesThe3rd/shopledger/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/shopledger/internal/http/importcsv"
	summaryHandler "github.com/MrJamesThe3rd/shopledger/internal/http/summary"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init(cfg.App.Name, cfg.Log.Level, cfg.Log.Format)

	if cfg.Auth.Secret == "" {
		slog.Error("AUTH_SECRET must be set")
		os.Exit(1)
	}

	repo, closeRepo, err := app.OpenRepository(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	svc := app.NewServices(cfg, repo)

	router := shopHttp.New(
		shopHttp.Options{
			AuthSecret:     cfg.Auth.Secret,
			AllowedOrigins: cfg.Server.CORSOrigins,
		},
		entryHandler.NewHandler(svc.Ledger, svc.Categories.FallbackLabel()),
		importHandler.NewHandler(svc.Importer),
		exportHandler.NewHandler(svc.Exporter),
		categoryHandler.NewHandler(svc.Categories),
		summaryHandler.NewHandler(svc.Reports),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
