package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"tuberecon/internal/core"
)

func (s *Server) handleTrendsPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct {
		Months []string
	}{
		Months: s.trends.Months(),
	}
	if err := s.templates.ExecuteTemplate(w, "trends.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Trends template execution failed", "error", err, "template", "trends.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type trendSeriesJSON struct {
	TubeType string  `json:"tube_type"`
	Sent     []int64 `json:"sent"`
	Returned []int64 `json:"returned"`
}

type trendsResponse struct {
	Months []string          `json:"months"`
	Series []trendSeriesJSON `json:"series"`
}

// handleTrendsAPI returns the static multi-month trend dataset as JSON
// for the chart on the trends page.
func (s *Server) handleTrendsAPI(w http.ResponseWriter, r *http.Request) {
	resp := buildTrendsResponse(s.trends)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	// The dataset is immutable for the lifetime of the process.
	w.Header().Set("Cache-Control", "public, max-age=300")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "Trends JSON encode error", "error", err)
	}
}

func buildTrendsResponse(series core.TrendSeries) trendsResponse {
	months := series.Months()
	monthIdx := make(map[string]int, len(months))
	for i, m := range months {
		monthIdx[m] = i
	}

	byTube := make(map[string]*trendSeriesJSON)
	for _, p := range series.Points() {
		ts, ok := byTube[p.TubeType]
		if !ok {
			ts = &trendSeriesJSON{
				TubeType: p.TubeType,
				Sent:     make([]int64, len(months)),
				Returned: make([]int64, len(months)),
			}
			byTube[p.TubeType] = ts
		}
		if i, ok := monthIdx[p.Month]; ok {
			ts.Sent[i] += p.Sent
			ts.Returned[i] += p.Returned
		}
	}

	resp := trendsResponse{Months: months, Series: make([]trendSeriesJSON, 0, len(byTube))}
	names := make([]string, 0, len(byTube))
	for name := range byTube {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		resp.Series = append(resp.Series, *byTube[name])
	}
	return resp
}
