// Command snapshot regenerates the daily profit snapshot for a given date
// (default: today) and optionally runs the stock ledger maintenance sweeps.
// Meant for cron or manual backfills:
//
//	snapshot                   # regenerate today
//	snapshot 2026-08-10        # regenerate a specific day
//	snapshot -sweep            # regenerate today + prune/merge sweeps
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/joroshdy12596/ai-pharmacy/internal/config"
	"github.com/joroshdy12596/ai-pharmacy/internal/infra"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	sweep := flag.Bool("sweep", false, "also prune empty lots and merge duplicates")
	flag.Parse()

	date := time.Now()
	if arg := flag.Arg(0); arg != "" {
		parsed, err := time.Parse("2006-01-02", arg)
		if err != nil {
			log.Fatal().Str("arg", arg).Msg("date must be YYYY-MM-DD")
		}
		date = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	stockRepo := repository.NewStockRepository(db)

	profitSvc := service.NewProfitService(saleRepo, purchaseRepo, analyticsRepo, medicineRepo)
	stockSvc := service.NewStockService(stockRepo, medicineRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	snap, err := profitSvc.GenerateDailySnapshot(ctx, date)
	if err != nil {
		log.Fatal().Err(err).Msg("snapshot generation failed")
	}
	log.Info().
		Str("date", snap.Date).
		Str("total_sales", snap.TotalSales.StringFixed(2)).
		Str("total_profit", snap.TotalProfit.StringFixed(2)).
		Int("sales", snap.NumberOfSales).
		Msg("snapshot regenerated")

	if *sweep {
		pruned, err := stockSvc.Prune(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("prune sweep failed")
		}
		merged, err := stockSvc.MergeDuplicateLots(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("merge sweep failed")
		}
		log.Info().Int64("pruned", pruned.Affected).Int64("merged", merged.Affected).Msg("ledger sweeps done")
	}
}
