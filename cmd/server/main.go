package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bcgov/sbc-queue-session/internal/config"
	"github.com/bcgov/sbc-queue-session/internal/migrate"
	"github.com/bcgov/sbc-queue-session/internal/repository/postgres"
	"github.com/bcgov/sbc-queue-session/server"
	"github.com/bcgov/sbc-queue-session/sso"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.New()
	setupLogging(cfg)

	figure.NewFigure(cfg.GetAppName(), "", true).Print()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migrate.Up(ctx, cfg.GetDatabaseURL()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	srv, err := server.New(cfg, sso.NewClient(cfg), sso.NewValidator(cfg), server.Repos{
		Staff:     postgres.NewStaffRepo(db),
		Locations: postgres.NewLocationRepo(db),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	httpServer := &http.Server{
		Addr:    cfg.GetPort(),
		Handler: srv,
	}

	go func() {
		log.Info().Str("addr", cfg.GetPort()).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogging(cfg config.Config) {
	if cfg.GetNodeEnv() == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
