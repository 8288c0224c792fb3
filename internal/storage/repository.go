package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tuberecon/internal/core"
	applog "tuberecon/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the multi-month trend reference dataset.
// The server only reads it (once, at startup); cmd/trend-import writes it.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTrendSeries reads the whole reference dataset into an immutable
// series. Called once at process start.
func (r *SQLiteRepository) LoadTrendSeries(ctx context.Context) (core.TrendSeries, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, tube_type, sent, returned
		 FROM trend_points
		 ORDER BY month, tube_type`)
	if err != nil {
		return core.TrendSeries{}, fmt.Errorf("query trend points: %w", err)
	}
	defer rows.Close()

	var points []core.TrendPoint
	for rows.Next() {
		var p core.TrendPoint
		if err := rows.Scan(&p.Month, &p.TubeType, &p.Sent, &p.Returned); err != nil {
			return core.TrendSeries{}, fmt.Errorf("scan trend point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return core.TrendSeries{}, fmt.Errorf("iterate trend points: %w", err)
	}

	slog.InfoContext(ctx, "Trend reference data loaded",
		applog.FieldComponent, applog.ComponentStorage,
		"points", len(points))
	return core.NewTrendSeries(points), nil
}

// ReplaceMonth swaps the stored points of one month for the given set,
// atomically. The importer calls this per month so re-imports stay
// idempotent.
func (r *SQLiteRepository) ReplaceMonth(ctx context.Context, month string, points []core.TrendPoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trend_points WHERE month = ?`, month); err != nil {
		return fmt.Errorf("clear month %s: %w", month, err)
	}

	for _, p := range points {
		if p.Month != month {
			return fmt.Errorf("point for month %s in replace of %s", p.Month, month)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trend_points (month, tube_type, sent, returned) VALUES (?, ?, ?, ?)`,
			p.Month, core.NormalizeTubeType(p.TubeType), p.Sent, p.Returned); err != nil {
			return fmt.Errorf("insert trend point %s/%s: %w", p.Month, p.TubeType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit month %s: %w", month, err)
	}

	slog.InfoContext(ctx, "Trend month replaced",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldMonth, month,
		"points", len(points))
	return nil
}

// CountPoints reports how many reference points are stored.
func (r *SQLiteRepository) CountPoints(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trend_points`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trend points: %w", err)
	}
	return n, nil
}
