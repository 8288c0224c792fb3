// Package backend selects and initializes the trend reference data
// source at process start.
package backend

import (
	"context"
	"fmt"
	"time"

	"tuberecon/internal/config"
	"tuberecon/internal/core"
	"tuberecon/internal/storage"
	"tuberecon/internal/trend"
)

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries the loaded, immutable trend series plus any cleanup.
type Result struct {
	Series  core.TrendSeries
	Cleanup CleanupFunc
}

// LoadTrendData builds the trend series from the configured backend:
// "memory" parses the monthly CSV files in TrendDataDir, "sqlite"
// reads the table maintained by trend-import. Either way the data is
// loaded exactly once and never mutated afterwards.
func LoadTrendData(ctx context.Context, cfg *config.Config) (*Result, error) {
	switch cfg.DataBackend {
	case "memory":
		series, err := trend.LoadDir(ctx, cfg.TrendDataDir, time.Now().Year(), core.DefaultKitMap())
		if err != nil {
			return nil, fmt.Errorf("load trend data from %s: %w", cfg.TrendDataDir, err)
		}
		return &Result{Series: series, Cleanup: func() error { return nil }}, nil

	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open trend database: %w", err)
		}
		series, err := repo.LoadTrendSeries(ctx)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("load trend series: %w", err)
		}
		// The series is fully materialized in memory; the database is
		// not needed again until the next restart.
		if err := repo.Close(); err != nil {
			return nil, fmt.Errorf("close trend database: %w", err)
		}
		return &Result{Series: series, Cleanup: func() error { return nil }}, nil

	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
