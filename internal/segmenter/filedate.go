package segmenter

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DateFromPath derives the calendar date of a journal file.
//
// The filename is tried first: a `YYYY-MM-DD` prefix, with underscores
// treated as dashes. Failing that, the enclosing directories are read as
// `<year>/<month>/` (numeric or English month name) with the day taken from
// the first filename token. Returns false when no valid date can be derived.
func DateFromPath(path string) (time.Time, bool) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(strings.ReplaceAll(name, "_", "-"), "-")

	if len(parts) >= 3 {
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		day, errD := strconv.Atoi(parts[2])
		if errY == nil && errM == nil && errD == nil {
			if d, ok := makeDate(year, month, day); ok {
				return d, true
			}
		}
	}

	// Fallback: year/month directories plus a day token in the filename.
	monthDir := filepath.Base(filepath.Dir(path))
	yearDir := filepath.Base(filepath.Dir(filepath.Dir(path)))

	year, err := strconv.Atoi(yearDir)
	if err != nil {
		return time.Time{}, false
	}
	month, ok := parseMonth(monthDir)
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}

	return makeDate(year, month, day)
}

// makeDate validates the components against the real calendar.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		// time.Date normalised an impossible date like February 30th.
		return time.Time{}, false
	}
	return d, true
}

// parseMonth accepts a numeric month or an English month name.
func parseMonth(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 1 && n <= 12
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, m.String()) || strings.EqualFold(s, m.String()[:3]) {
			return int(m), true
		}
	}
	return 0, false
}
