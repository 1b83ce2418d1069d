// Package model provides domain models and data transfer objects for the
// analytics module.
package model

import "time"

// Window is a trailing time range over which metrics are computed.
type Window string

// Supported analysis windows.
const (
	Window1Week   Window = "1week"
	Window1Month  Window = "1month"
	Window3Months Window = "3months"
	Window6Months Window = "6months"
)

// windows maps every valid window tag to its start-date offset.
var windows = map[Window]struct {
	days   int
	months int
}{
	Window1Week:   {days: -7},
	Window1Month:  {months: -1},
	Window3Months: {months: -3},
	Window6Months: {months: -6},
}

// ParseWindow validates a window tag supplied by a caller.
func ParseWindow(s string) (Window, error) {
	w := Window(s)
	if _, ok := windows[w]; !ok {
		return "", ErrInvalidWindow
	}
	return w, nil
}

// StartDate returns the inclusive lower bound of the window relative to now.
func (w Window) StartDate(now time.Time) time.Time {
	off, ok := windows[w]
	if !ok {
		off = windows[Window3Months]
	}
	return now.AddDate(0, off.months, off.days)
}

// BucketStart truncates a timestamp to its time-series bucket key: the start
// of its UTC day for short windows, the start of its UTC week (Monday) for
// windows of three months and up. Keys are normalized timestamps, never
// formatted strings.
func (w Window) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if w == Window1Week || w == Window1Month {
		return day
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// String returns the window tag.
func (w Window) String() string {
	return string(w)
}
