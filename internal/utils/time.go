package utils

import (
	"time"
)

// ISOMillisLayout renders timestamps the way the web client prints Date values,
// with the reporting location's offset so the calendar day is preserved
const ISOMillisLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate formats a time.Time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatISO formats a time.Time as ISO 8601 with millisecond precision
func FormatISO(t time.Time) string {
	return t.Format(ISOMillisLayout)
}

// ParseDate parses a date string in YYYY-MM-DD format
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// MonthName returns the English month name for a 1-based month
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// PreviousMonth returns the year and month before the one containing t
func PreviousMonth(t time.Time) (year, month int) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	prev := first.AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}

// MonthKey formats a year and month as YYYY-MM
func MonthKey(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
