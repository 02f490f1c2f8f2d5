package core

import "time"

// MonthAt returns the first day of the month offset months after start.
// Offset 0 is the month containing start itself. time.Date normalizes
// out-of-range month values, so December+1 rolls into January correctly.
func MonthAt(start time.Time, offset int) time.Time {
	return time.Date(start.Year(), start.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}

// CurrentMonth returns the first day of the month containing now.
func CurrentMonth(now time.Time) time.Time {
	return MonthAt(now, 0)
}
