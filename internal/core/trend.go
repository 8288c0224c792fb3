package core

import "sort"

// TrendPoint is one month/tube-type slice of the multi-month reference
// dataset behind the trends chart. It is reference data prepared
// offline, not something the reconciler computes at request time.
type TrendPoint struct {
	Month    string // canonical "YYYY-MM" label
	TubeType string
	Sent     int64
	Returned int64
}

// TrendSeries is an immutable, chronologically ordered view over the
// reference dataset. Build it once at startup and share it freely; it
// is never mutated afterwards.
type TrendSeries struct {
	points []TrendPoint
	months []string
}

// NewTrendSeries copies and orders the given points by month then tube
// type so rendering is deterministic regardless of load order.
func NewTrendSeries(points []TrendPoint) TrendSeries {
	ordered := make([]TrendPoint, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Month != ordered[j].Month {
			return ordered[i].Month < ordered[j].Month
		}
		return ordered[i].TubeType < ordered[j].TubeType
	})

	var months []string
	seen := make(map[string]struct{})
	for _, p := range ordered {
		if _, ok := seen[p.Month]; ok {
			continue
		}
		seen[p.Month] = struct{}{}
		months = append(months, p.Month)
	}

	return TrendSeries{points: ordered, months: months}
}

// Points returns a copy of the ordered points.
func (s TrendSeries) Points() []TrendPoint {
	out := make([]TrendPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Months returns the distinct month labels in chronological order.
func (s TrendSeries) Months() []string {
	out := make([]string, len(s.months))
	copy(out, s.months)
	return out
}

// Len reports the number of points in the series.
func (s TrendSeries) Len() int { return len(s.points) }
