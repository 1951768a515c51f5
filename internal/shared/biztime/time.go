// Package biztime centralizes time handling. All storage and scheduling use UTC;
// presentation formatting converts at the edge.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDate formats a time as a human-readable date for notification text.
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

// FormatClock formats a time as HH:MM for notification text.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
