// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reelrec/internal/api"
	"github.com/tomtom215/reelrec/internal/config"
	"github.com/tomtom215/reelrec/internal/database"
	"github.com/tomtom215/reelrec/internal/logging"
	"github.com/tomtom215/reelrec/internal/supervisor"
	"github.com/tomtom215/reelrec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting reelrec with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	idx, err := loadCatalog(&cfg.Data)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load movie catalog")
	}

	data, err := initData(ctx, cfg, idx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize data layer")
	}
	defer data.Close()

	rec, err := initRecommend(ctx, cfg, idx, data.Source)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer rec.Close()

	// A nil *database.DB must not become a non-nil interface.
	var explorer api.Explorer
	if data.DB != nil {
		explorer = data.DB
	}

	handler := api.NewHandler(rec.Engine, explorer, database.Topics, version)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger(logging.WithComponent("supervisor")),
		supervisor.TreeConfigFrom(cfg.Supervisor),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(rec.Service)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
