package utils

import (
	"fmt"
	"time"

	"coworkly/errors"
)

// DateLayout is the calendar-date format used in requests and in the
// dateReservation attribute.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in the space-local zone.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date), err)
	}
	return d, nil
}

// SlotTimestamp builds the sort-key timestamp for an hour slot: the
// space-local date and hour rendered in RFC3339 with an explicit UTC
// offset, e.g. "2024-06-01T09:00:00-03:00".
func SlotTimestamp(date string, hour int, loc *time.Location) (string, error) {
	if hour < 0 || hour > 23 {
		return "", errors.NewAppError(errors.ErrCodeInvalidHour, fmt.Sprintf("Hour %d out of range 0-23", hour), nil)
	}
	d, err := ParseDate(date, loc)
	if err != nil {
		return "", err
	}
	slot := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
	return slot.Format(time.RFC3339), nil
}

// ParseSlotTimestamp validates a client-supplied slot timestamp.
func ParseSlotTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, fmt.Sprintf("Invalid slot timestamp %q, expected RFC3339 with offset", ts), err)
	}
	return t, nil
}
