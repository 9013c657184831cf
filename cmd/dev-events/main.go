package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devEvents/internal/config"
	"devEvents/internal/lib/logger/handlers/slogpretty"
	"devEvents/internal/lib/logger/sl"
	"devEvents/internal/lib/mailer"
	"devEvents/internal/services/booking"
	"devEvents/internal/services/similar"
	"devEvents/internal/storage/images"
	"devEvents/internal/storage/mongodb"
)

const (
	janitorInterval = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting dev events", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	connector, err := mongodb.NewConnector(
		cfg.Mongo.URI,
		mongodb.WithConnectTimeout(cfg.Mongo.ConnectTimeout),
		mongodb.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to init mongodb connector", sl.Err(err))
		os.Exit(1)
	}

	storage := mongodb.New(connector, cfg.Mongo.Database)

	indexCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	if err = storage.EnsureIndexes(indexCtx); err != nil {
		// CreateEvent ensures them again before the first insert
		log.Error("failed to ensure indexes", sl.Err(err))
	}
	cancel()

	imageStore, err := images.New(cfg.Images)
	if err != nil {
		log.Error("failed to init image store", sl.Err(err))
		os.Exit(1)
	}

	bookings := booking.New(log, storage, mailer.New(cfg.Mailer, log))
	similarEvents := similar.New(storage, cfg.SimilarCacheTTL)

	verbose := cfg.Verbose()

	router := newRouter(log, cfg.HTTPServer, verbose, api{
		events:   storage,
		images:   imageStore,
		similar:  similarEvents,
		bookings: bookings,
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	defer stop()

	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				similarEvents.PurgeExpired()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("application stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if err = connector.Disconnect(shutdownCtx); err != nil {
		log.Error("failed to close mongodb connection", sl.Err(err))
	}

	log.Info("mongodb connection closed")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = setupPrettySlog()
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
