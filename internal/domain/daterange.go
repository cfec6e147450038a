package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive start-end pair. Start == End represents a
// point-in-time range (a single planned or actual date).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range as "2024-05-01 → 2024-05-10", or a single date
// for point-in-time ranges.
func (r DateRange) String() string {
	if r.Start.Equal(r.End) {
		return r.Start.Format(dateLayout)
	}
	return fmt.Sprintf("%s → %s", r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// IsPoint reports whether the range covers a single date.
func (r DateRange) IsPoint() bool { return r.Start.Equal(r.End) }

// NormalizeRange builds a validated range from two optional dates.
// A single present date populates both ends. When start is after end the
// values are swapped rather than discarded, so no data is lost.
// Both absent yields nil.
func NormalizeRange(start, end *time.Time) *DateRange {
	switch {
	case start == nil && end == nil:
		return nil
	case start == nil:
		return &DateRange{Start: *end, End: *end}
	case end == nil:
		return &DateRange{Start: *start, End: *start}
	case start.After(*end):
		return &DateRange{Start: *end, End: *start}
	default:
		return &DateRange{Start: *start, End: *end}
	}
}

// cellDateLayouts are tried in order when parsing a date cell. The planning
// template is Portuguese, so day-first forms come before the spreadsheet
// library's default short form.
var cellDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"01-02-06",
	"01-02-06 15:04",
	time.RFC3339,
}

// excelEpoch is day zero of the 1900 date system used by xlsx serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseCellDate best-effort parses a loosely-typed cell value into a date.
// Accepts several textual layouts plus raw xlsx serial numbers. Returns nil
// for anything unparseable; callers log, never fail, on nil.
func ParseCellDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}

	// Unformatted cells come through as serial day counts.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 300000 {
		t := excelEpoch.AddDate(0, 0, int(math.Floor(serial)))
		return &t
	}

	return nil
}
