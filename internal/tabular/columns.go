// Package tabular turns uploaded CSV report files into the core rows
// the reconciler consumes, and serializes merged reports back to CSV.
//
// Column names in the source reports are not fixed: the outbound export
// and the inbound lab file each use their own headers, and both drift
// between exports. Headers are therefore matched against alias sets
// after normalization rather than compared literally.
package tabular

import (
	"strconv"
	"strings"

	"tuberecon/internal/core"
)

var tubeTypeAliases = map[string]struct{}{
	"tube_type": {},
	"tubetype":  {},
	"tube type": {},
	"tube":      {},
	"color":     {},
	"type":      {},
}

var sentAliases = map[string]struct{}{
	"quantity_sent": {},
	"quantity sent": {},
	"quantity":      {},
	"qty":           {},
	"sent":          {},
	"count":         {},
	"num":           {},
	"tubessent":     {},
}

var returnedAliases = map[string]struct{}{
	"quantity_returned": {},
	"quantity returned": {},
	"quantity":          {},
	"qty":               {},
	"returned":          {},
	"count":             {},
	"num":               {},
	"tubesreturned":     {},
}

// findColumn returns the index of the first header matching the alias
// set, or -1. Matching is case- and whitespace-insensitive.
func findColumn(headers []string, aliases map[string]struct{}) int {
	for i, h := range headers {
		if _, ok := aliases[core.NormalizeTubeType(h)]; ok {
			return i
		}
	}
	return -1
}

// parseQuantity parses a quantity cell. Blank cells count as zero, the
// way the upstream exports leave unsold kit columns empty. Integral
// floats ("3.0") are accepted; anything else is malformed.
func parseQuantity(cell string) (int64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}

// cell returns record[i] or "" when the row is shorter than the header.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
