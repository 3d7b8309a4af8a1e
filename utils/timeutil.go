package utils

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// LocalMidnight returns the start of t's calendar day in loc, as a UTC instant.
func LocalMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

// DayRange returns [start, end) of t's local day in UTC. The end is the next
// local midnight, so DST days are 23 or 25 hours long.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// MonthRange returns [start, end) of the given local month in UTC.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// ParseClock parses "HH:MM" into hours and minutes.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// ClockOn places a "HH:MM" time of day on the local calendar day of ref.
func ClockOn(ref time.Time, clock string, loc *time.Location) (time.Time, error) {
	h, mi, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, h, mi, 0, 0, loc), nil
}

// FormatClock renders t as local "HH:MM".
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(clockLayout)
}
