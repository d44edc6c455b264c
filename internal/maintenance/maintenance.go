// Package maintenance runs periodic database upkeep as Go tickers — the
// service is already a persistent process, so scheduled work lives here
// instead of cron.
package maintenance

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	OrphanSweepInterval time.Duration // Shots whose club is gone
	AnalyzeInterval     time.Duration // Refresh query planner statistics
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		OrphanSweepInterval: 1 * time.Hour,
		AnalyzeInterval:     24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, db *sql.DB, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"orphan_sweep", cfg.OrphanSweepInterval,
		"analyze", cfg.AnalyzeInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.OrphanSweepInterval > 0 {
		t := time.NewTicker(cfg.OrphanSweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { sweepOrphans(ctx, db, logger) })
	}

	if cfg.AnalyzeInterval > 0 {
		t := time.NewTicker(cfg.AnalyzeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { analyze(ctx, db, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// sweepOrphans deletes shots whose club no longer exists. Club deletion
// removes its shots in the same transaction, so this only catches rows left
// behind by pre-migration databases or out-of-band edits.
func sweepOrphans(ctx context.Context, db *sql.DB, logger *slog.Logger) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM shots
		WHERE club_id NOT IN (SELECT id FROM clubs)`)
	if err != nil {
		logger.Warn("Orphan sweep failed", "error", err)
		return
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logger.Info("Orphan sweep removed shots", "count", n)
	}
}

// analyze refreshes planner statistics. ANALYZE is valid on both sqlite and
// postgres.
func analyze(ctx context.Context, db *sql.DB, logger *slog.Logger) {
	start := time.Now()
	if _, err := db.ExecContext(ctx, "ANALYZE"); err != nil {
		logger.Warn("ANALYZE failed", "error", err)
		return
	}
	logger.Info("ANALYZE completed", "duration", time.Since(start).Round(time.Millisecond))
}
