package entity

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// TruncateToDate drops the time of day, returning midnight UTC of the same calendar date
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// MonthsBefore subtracts n calendar months from date. Unlike time.AddDate the
// day is clamped to the end of the target month, so 2024-08-31 minus six
// months is 2024-02-29 rather than 2024-03-02.
func MonthsBefore(date time.Time, n int) time.Time {
	date = TruncateToDate(date)
	y, m, d := date.Date()

	firstOfTarget := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}
