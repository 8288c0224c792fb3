package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tuberecon/internal/core"
	"tuberecon/internal/tabular"
)

// maxUploadBytes caps the combined size of the two uploaded CSVs.
const maxUploadBytes = 10 << 20 // 10MB

func (s *Server) handleMergerPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "merger.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Merger template execution failed", "error", err, "template", "merger.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type mergedRow struct {
	TubeType  string
	Sent      int64
	Returned  int64
	Remaining int64
	Anomaly   bool
}

type mergedTableData struct {
	Month          string
	MonthName      string
	Token          string
	Rows           []mergedRow
	Warnings       []string
	TotalSent      int64
	TotalReturned  int64
	TotalRemaining int64
}

// handleMergeUpload accepts the outbound and inbound CSVs plus a month
// label, runs the reconciliation, and renders the merged table partial.
func (s *Server) handleMergeUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err, "url", r.URL.Path)
		writeErrorFragment(w, http.StatusBadRequest, "Invalid upload: expected two CSV files and a month label")
		return
	}

	outFile, _, err := r.FormFile("outbound")
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Missing outbound (kits sent) CSV file")
		return
	}
	defer outFile.Close()

	inFile, _, err := r.FormFile("inbound")
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Missing inbound (samples returned) CSV file")
		return
	}
	defer inFile.Close()

	month := sanitizeInput(r.FormValue("month"))
	if month == "" {
		writeErrorFragment(w, http.StatusBadRequest, "Missing month label")
		return
	}

	token, report, err := s.merger.Merge(r.Context(), outFile, inFile, month)
	if err != nil {
		status, msg := uploadErrorMessage(err)
		slog.WarnContext(r.Context(), "Merge rejected", "error", err, "month", month, "status", status)
		writeErrorFragment(w, status, msg)
		return
	}

	data := mergedTableData{
		Month:          report.Month,
		MonthName:      core.MonthDisplayName(report.Month),
		Token:          token,
		TotalSent:      report.TotalSent(),
		TotalReturned:  report.TotalReturned(),
		TotalRemaining: report.TotalRemaining(),
	}
	for _, rec := range report.Records {
		data.Rows = append(data.Rows, mergedRow{
			TubeType:  rec.TubeType,
			Sent:      rec.Sent,
			Returned:  rec.Returned,
			Remaining: rec.Remaining,
			Anomaly:   rec.Remaining < 0,
		})
	}
	for _, u := range report.Unmatched {
		side := "inbound only"
		if u.Source == core.SourceOutbound {
			side = "outbound only"
		}
		data.Warnings = append(data.Warnings, fmt.Sprintf("%q appears in the %s data", u.TubeType, side))
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		writeErrorFragment(w, http.StatusInternalServerError, "Failed to render merged table")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "merged_table.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "merged_table.html", "month", report.Month)
		writeErrorFragment(w, http.StatusInternalServerError, "Failed to render merged table")
	}
}

// handleMergeDownload streams a previously merged report as CSV. The
// token comes from the upload response and expires with the cache TTL.
func (s *Server) handleMergeDownload(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	report, ok := s.merger.Report(token)
	if !ok {
		slog.WarnContext(r.Context(), "Download token not found or expired", "report_token", token)
		http.Error(w, "report not found or expired", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tabular.DownloadFilename(report.Month)))
	if err := tabular.WriteReportCSV(w, report); err != nil {
		slog.ErrorContext(r.Context(), "CSV write error", "error", err, "month", report.Month)
	}
}
