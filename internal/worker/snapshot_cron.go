package worker

// snapshot_cron.go
// Background goroutine that keeps the daily profit snapshot fresh and runs the
// stock ledger maintenance sweeps. The snapshot recompute is idempotent, so
// regenerating the running day every tick is safe; the previous day gets a
// final regeneration on the first tick after midnight.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
)

const snapshotTickInterval = 1 * time.Hour

// SnapshotGenerator regenerates the profit snapshot for one day.
// Satisfied by service.ProfitService.
type SnapshotGenerator interface {
	GenerateDailySnapshot(ctx context.Context, date time.Time) (*dto.ProfitSnapshotResponse, error)
}

// LedgerMaintainer runs the nightly stock ledger sweeps.
// Satisfied by service.StockService.
type LedgerMaintainer interface {
	Prune(ctx context.Context) (*dto.MaintenanceResponse, error)
	MergeDuplicateLots(ctx context.Context) (*dto.MaintenanceResponse, error)
}

// SnapshotCronConfig holds the dependencies for the snapshot goroutine.
type SnapshotCronConfig struct {
	Profit SnapshotGenerator
	Stock  LedgerMaintainer
}

// StartSnapshotCron launches a background goroutine that ticks hourly,
// regenerates the current day's snapshot and, once per day, finalizes the
// previous day and runs the prune/merge sweeps.
// It respects the context for graceful shutdown.
func StartSnapshotCron(ctx context.Context, cfg SnapshotCronConfig) {
	go func() {
		ticker := time.NewTicker(snapshotTickInterval)
		defer ticker.Stop()

		log.Info().Msg("snapshot_cron: started")
		lastFinalized := time.Now().Format("2006-01-02")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("snapshot_cron: shutting down")
				return
			case <-ticker.C:
				now := time.Now()
				if _, err := cfg.Profit.GenerateDailySnapshot(ctx, now); err != nil {
					log.Error().Err(err).Msg("snapshot_cron: failed to regenerate running day")
				}

				// First tick of a new day: finalize yesterday and sweep the ledger.
				today := now.Format("2006-01-02")
				if today != lastFinalized {
					yesterday := now.AddDate(0, 0, -1)
					if _, err := cfg.Profit.GenerateDailySnapshot(ctx, yesterday); err != nil {
						log.Error().Err(err).Msg("snapshot_cron: failed to finalize previous day")
					}
					if _, err := cfg.Stock.Prune(ctx); err != nil {
						log.Error().Err(err).Msg("snapshot_cron: prune sweep failed")
					}
					if _, err := cfg.Stock.MergeDuplicateLots(ctx); err != nil {
						log.Error().Err(err).Msg("snapshot_cron: merge sweep failed")
					}
					lastFinalized = today
				}
			}
		}
	}()
}
