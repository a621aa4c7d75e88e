package domain

import "time"

// Day builds a date at UTC midnight, the canonical form used for map keys
// and date comparisons throughout the module
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf truncates t to its date at UTC midnight
func DayOf(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}
