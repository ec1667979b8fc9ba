// Package scheduling computes follow-up dates on the Monday-to-Friday
// business calendar.
package scheduling

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// AddBusinessDays moves t forward by n weekdays, skipping Saturday and
// Sunday. With n <= 0 the date is returned unchanged, even on a weekend.
// The time of day and location of t are preserved.
func AddBusinessDays(t time.Time, n int) time.Time {
	result := t
	for added := 0; added < n; {
		result = result.AddDate(0, 0, 1)
		if IsBusinessDay(result) {
			added++
		}
	}
	return result
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// FormatDate renders t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NextActionDate is FormatDate(AddBusinessDays(t, n)).
func NextActionDate(t time.Time, n int) string {
	return FormatDate(AddBusinessDays(t, n))
}

// StartOfDay returns local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, value, loc)
}
