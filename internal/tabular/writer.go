package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"tuberecon/internal/core"
)

// ReportColumns is the fixed column order of a serialized merged
// report. The download preserves it along with the report's row order.
var ReportColumns = []string{"tube_type", "sent", "returned", "remaining", "month"}

// WriteReportCSV serializes the merged report, header first, rows in
// report order.
func WriteReportCSV(w io.Writer, report core.MergedReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range report.Records {
		row := []string{
			rec.TubeType,
			strconv.FormatInt(rec.Sent, 10),
			strconv.FormatInt(rec.Returned, 10),
			strconv.FormatInt(rec.Remaining, 10),
			rec.Month,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DownloadFilename names the CSV attachment for a merged report.
func DownloadFilename(month string) string {
	return "merged_kit_report_" + month + ".csv"
}
