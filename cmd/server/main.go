package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"christocar/internal/assistant"
	"christocar/internal/config"
	"christocar/internal/infra"
	"christocar/internal/router"
	"christocar/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in development, JSON otherwise
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if cfg.RunMigrations {
		if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Redis is optional: without it emissions run inline and the pool stays idle.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, job queue disabled")
			rdb = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := assistant.New(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("assistant provider disabled")
		provider = nil
	}
	aiBreaker := infra.NewCircuitBreaker("assistant", infra.DefaultCBConfig())

	svcs := router.NewServices(cfg, db, worker.NewDispatcher(rdb), provider, aiBreaker)

	mailer := infra.NewMailer(cfg)
	wg := worker.StartWorkerPool(ctx, rdb, worker.Handlers{
		Invoice: worker.NewInvoiceWorker(svcs.Invoice, rdb),
		Email:   worker.NewEmailWorker(mailer, rdb),
	}, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Christo Car backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	wg.Wait()
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
