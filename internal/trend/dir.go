// Package trend loads the static multi-month reference dataset behind
// the trends chart. The dataset is read once at process start and kept
// as an immutable core.TrendSeries; nothing mutates it afterwards.
package trend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"tuberecon/internal/core"
	applog "tuberecon/internal/log"
	"tuberecon/internal/tabular"
)

// monthFiles pairs the outbound and inbound report files of one month.
type monthFiles struct {
	month    string
	outbound string
	inbound  string
}

// LoadDir builds the trend series from a directory of monthly report
// files named out_<month>.csv / in_<month>.csv. Months are parsed
// concurrently; a month missing one side still contributes the other
// (a sent-only month simply has zero returns). An empty, unreadable,
// or malformed file is logged and skipped so one stale report cannot
// take down the whole reference dataset. A directory with no matching
// files yields an empty series, not an error.
func LoadDir(ctx context.Context, dir string, year int, kits core.KitMap) (core.TrendSeries, error) {
	months, err := scanDir(dir, year)
	if err != nil {
		return core.TrendSeries{}, err
	}

	var (
		mu     sync.Mutex
		points []core.TrendPoint
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, mf := range months {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pts := loadMonth(ctx, mf, kits)
			mu.Lock()
			points = append(points, pts...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.TrendSeries{}, err
	}

	return core.NewTrendSeries(points), nil
}

func scanDir(dir string, year int) ([]monthFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read trend data dir %s: %w", dir, err)
	}

	byMonth := make(map[string]*monthFiles)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		isOut := strings.HasPrefix(name, "out_")
		isIn := strings.HasPrefix(name, "in_")
		if !isOut && !isIn {
			continue
		}
		month, err := core.MonthFromFilename(name, year)
		if err != nil {
			continue // stray file, not a monthly report
		}
		mf, ok := byMonth[month]
		if !ok {
			mf = &monthFiles{month: month}
			byMonth[month] = mf
		}
		if isOut {
			mf.outbound = filepath.Join(dir, name)
		} else {
			mf.inbound = filepath.Join(dir, name)
		}
	}

	months := make([]monthFiles, 0, len(byMonth))
	for _, mf := range byMonth {
		months = append(months, *mf)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].month < months[j].month })
	return months, nil
}

func loadMonth(ctx context.Context, mf monthFiles, kits core.KitMap) []core.TrendPoint {
	sent := make(map[string]int64)
	returned := make(map[string]int64)

	// A bad side is skipped, never fatal: the reference dataset must
	// survive an empty month or one stale malformed report.
	if mf.outbound != "" {
		rows, err := parseFile(mf.outbound, func(f *os.File) ([]core.OutboundRow, error) {
			return tabular.ParseOutbound(f, kits)
		})
		if err != nil {
			warnSkippedFile(ctx, mf.month, mf.outbound, err)
		}
		for _, r := range rows {
			sent[core.NormalizeTubeType(r.TubeType)] += r.Quantity
		}
	}
	if mf.inbound != "" {
		rows, err := parseFile(mf.inbound, func(f *os.File) ([]core.InboundRow, error) {
			return tabular.ParseInbound(f)
		})
		if err != nil {
			warnSkippedFile(ctx, mf.month, mf.inbound, err)
		}
		for _, r := range rows {
			returned[core.NormalizeTubeType(r.TubeType)] += r.Quantity
		}
	}

	tubes := make(map[string]struct{}, len(sent)+len(returned))
	for t := range sent {
		tubes[t] = struct{}{}
	}
	for t := range returned {
		tubes[t] = struct{}{}
	}

	points := make([]core.TrendPoint, 0, len(tubes))
	for tube := range tubes {
		points = append(points, core.TrendPoint{
			Month:    mf.month,
			TubeType: tube,
			Sent:     sent[tube],
			Returned: returned[tube],
		})
	}
	return points
}

func warnSkippedFile(ctx context.Context, month, path string, err error) {
	slog.WarnContext(ctx, "Skipping unreadable trend file",
		applog.FieldComponent, applog.ComponentTrend,
		applog.FieldMonth, month,
		"file", filepath.Base(path),
		applog.FieldError, err)
}

func parseFile[T any](path string, parse func(*os.File) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}
