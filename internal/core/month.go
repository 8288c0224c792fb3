package core

import (
	"fmt"
	"strings"
	"time"
)

// monthAliases covers the short forms seen in report filenames that
// time.Parse does not accept ("march", "sept", ...).
var monthAliases = map[string]time.Month{
	"jan": time.January, "feb": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

// ParseMonthLabel turns a user-supplied month identifier into the
// canonical "YYYY-MM" label the report carries. Accepted forms:
// "2025-07", "202507", "july" / "Jul" (current year assumed), and
// "july 2025".
func ParseMonthLabel(raw string, now time.Time) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyMonth
	}

	for _, layout := range []string{"2006-01", "200601"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01"), nil
		}
	}

	name := strings.ToLower(s)
	year := now.Year()
	if fields := strings.Fields(name); len(fields) == 2 {
		if _, err := fmt.Sscanf(fields[1], "%d", &year); err == nil {
			name = fields[0]
		}
	}
	if m, err := parseMonthName(name); err == nil {
		return fmt.Sprintf("%04d-%02d", year, m), nil
	}

	return "", fmt.Errorf("unrecognized month label %q", raw)
}

func parseMonthName(name string) (time.Month, error) {
	if m, ok := monthAliases[name]; ok {
		return m, nil
	}
	cased := capitalize(name)
	if t, err := time.Parse("Jan", cased); err == nil {
		return t.Month(), nil
	}
	if t, err := time.Parse("January", cased); err == nil {
		return t.Month(), nil
	}
	return 0, fmt.Errorf("unknown month name %q", name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// MonthFromFilename extracts the month from report filenames of the
// form "out_june.csv" / "in_jan.csv", assuming the year given.
func MonthFromFilename(filename string, year int) (string, error) {
	base := strings.TrimSuffix(filename, ".csv")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("filename %q does not follow out_MONTH.csv / in_MONTH.csv", filename)
	}
	m, err := parseMonthName(strings.ToLower(parts[1]))
	if err != nil {
		return "", fmt.Errorf("filename %q: %w", filename, err)
	}
	return fmt.Sprintf("%04d-%02d", year, m), nil
}

// MonthDisplayName renders a "YYYY-MM" label as "January 2025" for
// chart axes. Unparseable labels pass through unchanged.
func MonthDisplayName(label string) string {
	t, err := time.Parse("2006-01", label)
	if err != nil {
		return label
	}
	return t.Format("January 2006")
}
