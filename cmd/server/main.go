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

	"github.com/joroshdy12596/ai-pharmacy/internal/config"
	"github.com/joroshdy12596/ai-pharmacy/internal/infra"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
	"github.com/joroshdy12596/ai-pharmacy/internal/router"
	"github.com/joroshdy12596/ai-pharmacy/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, deps := router.New(cfg, db, rdb)

	// Background worker pool: receipt PDFs and emails are generated off the
	// request path. Handlers are wired here (composition root) so the pool
	// has full access to infrastructure.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	saleRepo := repository.NewSaleRepository(db)
	receiptWorker := worker.NewReceiptWorker(saleRepo, dispatcher, rdb, cfg.PharmacyName, cfg.PDFStoragePath)
	emailWorker := worker.NewEmailWorker(mailer)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
		worker.JobTypeReceipt: receiptWorker.Process,
		worker.JobTypeEmail:   emailWorker.Process,
	})

	// Hourly profit snapshot + nightly stock maintenance
	worker.StartSnapshotCron(ctx, worker.SnapshotCronConfig{
		Profit: deps.Profit,
		Stock:  deps.Stock,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("pharmacy backend listening on :%d", cfg.Port)
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
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
