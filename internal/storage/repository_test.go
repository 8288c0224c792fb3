package storage

import (
	"context"
	"path/filepath"
	"testing"

	"tuberecon/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "trend.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestReplaceMonthAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	jan := []core.TrendPoint{
		{Month: "2025-01", TubeType: "ACD", Sent: 10, Returned: 8},
		{Month: "2025-01", TubeType: "Blue", Sent: 4, Returned: 4},
	}
	if err := repo.ReplaceMonth(ctx, "2025-01", jan); err != nil {
		t.Fatalf("replace jan: %v", err)
	}
	feb := []core.TrendPoint{{Month: "2025-02", TubeType: "acd", Sent: 6}}
	if err := repo.ReplaceMonth(ctx, "2025-02", feb); err != nil {
		t.Fatalf("replace feb: %v", err)
	}

	series, err := repo.LoadTrendSeries(ctx)
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("len = %d, want 3", series.Len())
	}
	months := series.Months()
	if len(months) != 2 || months[0] != "2025-01" || months[1] != "2025-02" {
		t.Fatalf("months = %v", months)
	}
	// Tube types are normalized on insert.
	for _, p := range series.Points() {
		if p.TubeType != core.NormalizeTubeType(p.TubeType) {
			t.Fatalf("unnormalized tube type %q", p.TubeType)
		}
	}
}

func TestReplaceMonthIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	points := []core.TrendPoint{{Month: "2025-03", TubeType: "sst", Sent: 2, Returned: 1}}
	for i := 0; i < 3; i++ {
		if err := repo.ReplaceMonth(ctx, "2025-03", points); err != nil {
			t.Fatalf("replace run %d: %v", i, err)
		}
	}
	n, err := repo.CountPoints(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1 after re-imports", n)
	}
}

func TestReplaceMonthRejectsForeignMonth(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.ReplaceMonth(context.Background(), "2025-01",
		[]core.TrendPoint{{Month: "2025-02", TubeType: "acd", Sent: 1}})
	if err == nil {
		t.Fatalf("expected error for point outside the month")
	}
}
