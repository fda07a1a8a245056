package dateutil

import "time"

const dayLayout = "2006-01-02"

// Day formats a time as the calendar-day string used by streak and share
// ledgers.
func Day(t time.Time) string {
	return t.Format(dayLayout)
}

func Today() string {
	return Day(time.Now())
}

func Yesterday(t time.Time) string {
	return Day(t.AddDate(0, 0, -1))
}

// IsYesterdayOf reports whether day is exactly the calendar day before t.
func IsYesterdayOf(day string, t time.Time) bool {
	return day == Yesterday(t)
}

// IsSameDayOf reports whether day is the same calendar day as t.
func IsSameDayOf(day string, t time.Time) bool {
	return day == Day(t)
}
