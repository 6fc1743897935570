package models

import "time"

// ParseDate parses a YYYY-MM-DD string as a UTC midnight. Plan arithmetic is
// done in UTC so that day steps never cross a DST boundary.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats the calendar date of t in t's own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays adds n calendar days
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// CalendarDate returns the wall-clock date of t as a UTC midnight.
// A caller in UTC+10 at 08:00 local gets its local date, not UTC's.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextMonday returns the first Monday on or after the date of now
func NextMonday(now time.Time) time.Time {
	d := CalendarDate(now)
	return AddDays(d, (8-int(d.Weekday()))%7)
}

// WeekBounds returns the Monday and Sunday of the week containing t
func WeekBounds(t time.Time) (time.Time, time.Time) {
	d := CalendarDate(t)
	start := AddDays(d, -((int(d.Weekday()) + 6) % 7))
	return start, AddDays(start, 6)
}

// WorkoutSuggestion returns the suggested workout for the weekday of dateISO
func WorkoutSuggestion(dateISO string) string {
	t, err := ParseDate(dateISO)
	if err != nil {
		return ""
	}
	switch t.Weekday() {
	case time.Monday, time.Wednesday, time.Friday:
		return "Suggested: Strength"
	case time.Tuesday, time.Thursday:
		return "Suggested: Cardio/Recovery"
	default:
		return "Optional: Light activity"
	}
}

// GlutenExceptionDay reports whether dateISO falls on the weekly exception day
// (Thursday, one bagel allowed while still counting as compliant)
func GlutenExceptionDay(dateISO string) bool {
	t, err := ParseDate(dateISO)
	return err == nil && t.Weekday() == time.Thursday
}
