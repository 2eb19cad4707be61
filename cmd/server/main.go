package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cubeduel/internal/adapters/game"
	router "cubeduel/internal/adapters/http"
	"cubeduel/internal/app"
	"cubeduel/internal/config"
	"cubeduel/internal/report"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var reporter report.Reporter = report.NopReporter{}
	if cfg.DatabaseURL != "" {
		pg, err := report.Open(cfg.DatabaseURL)
		if err != nil {
			// Refuse to run half-configured: if a sink is requested it
			// must be reachable at startup.
			log.Fatal().Err(err).Msg("database connection failed")
		}
		reporter = pg
		log.Info().Msg("database connection OK")
	} else {
		log.Warn().Msg("no database_url configured, match results will not be recorded")
	}

	queue := app.NewQueueManager()
	rooms := app.NewRoomTable()
	registry := app.NewRegistry()
	coord := app.NewCoordinator(queue, rooms, registry, reporter)
	ctl := game.NewController(coord, cfg)

	r := router.SetupRouter(ctx, cfg, coord, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("cubeduel server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
