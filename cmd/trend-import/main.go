package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tuberecon/internal/config"
	"tuberecon/internal/core"
	applog "tuberecon/internal/log"
	"tuberecon/internal/storage"
	"tuberecon/internal/trend"
)

// trend-import loads the monthly out_*.csv / in_*.csv files from
// TREND_DATA_DIR and replaces the matching months in the SQLite trend
// store. Re-running it with the same files is a no-op.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentImport,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLITE_DB_PATH is required")
		os.Exit(1)
	}

	ctx := context.Background()

	series, err := trend.LoadDir(ctx, cfg.TrendDataDir, time.Now().Year(), core.DefaultKitMap())
	if err != nil {
		logger.Error("Failed to load trend files", "error", err, "dir", cfg.TrendDataDir)
		os.Exit(1)
	}
	if series.Len() == 0 {
		logger.Warn("No trend data found, nothing to import", "dir", cfg.TrendDataDir)
		return
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite trend store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	byMonth := make(map[string][]core.TrendPoint)
	for _, p := range series.Points() {
		byMonth[p.Month] = append(byMonth[p.Month], p)
	}

	for _, month := range series.Months() {
		points := byMonth[month]
		if err := repo.ReplaceMonth(ctx, month, points); err != nil {
			logger.Error("Failed to import month", "error", err, "month", month)
			os.Exit(1)
		}
		logger.Info("Imported month", "month", month, "points", len(points))
	}

	total, err := repo.CountPoints(ctx)
	if err != nil {
		logger.Error("Failed to count imported points", "error", err)
		os.Exit(1)
	}
	logger.Info("Trend import complete", "months", len(byMonth), "total_points", total)
}
