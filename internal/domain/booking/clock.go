package booking

import (
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate reads a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "date must be YYYY-MM-DD")
	}
	return d, nil
}

// ParseClock reads an HH:MM wall-clock value and returns minutes since
// midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil || len(hm) != len(ClockLayout) {
		return 0, httperr.Validation("invalid_time", "time must be HH:MM")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// At places an HH:MM value on the calendar day of date.
func At(date time.Time, hm string) (time.Time, error) {
	minutes, err := ParseClock(hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		minutes/60, minutes%60, 0, 0,
		date.Location(),
	), nil
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) share any instant. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
