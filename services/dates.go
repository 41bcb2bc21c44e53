package services

import (
	"time"

	"gorm.io/datatypes"
)

// calendarDay keeps the year, month and day exactly as the caller wrote them
// and drops everything else. No zone conversion happens here.
func calendarDay(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// slotOf splits a booking start into the calendar day and hour it occupies,
// read in UTC.
func slotOf(start time.Time) (datatypes.Date, int) {
	u := start.UTC()
	return calendarDay(u), u.Hour()
}

func validHour(hour int) error {
	if hour < 0 || hour > 23 {
		return validationf("hour %d outside 0-23", hour)
	}
	return nil
}

// slotStart is the UTC instant at which hour begins on the caller's day.
func slotStart(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
}
