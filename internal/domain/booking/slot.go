package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

const (
	MinDurationHours = 0.5
	MaxDurationHours = 8.0

	durationStep = 30 * time.Minute
)

// SlotRequest is the raw slot a student asks for. Duration is optional;
// when set it must agree with the interval.
type SlotRequest struct {
	Date      string
	StartTime string
	EndTime   string
	Duration  float64
}

// Window is a parsed, well-formed slot.
type Window struct {
	Date      string
	StartTime string
	EndTime   string
	Start     time.Time
	End       time.Time
	Duration  float64
}

// ParseWindow checks the shape of a slot request in loc: parseable date and
// times, end after start, and a duration in half-hour steps within bounds.
func ParseWindow(req SlotRequest, loc *time.Location) (Window, error) {
	if req.Duration != 0 {
		if err := checkDuration(req.Duration); err != nil {
			return Window{}, err
		}
	}

	day, err := ParseDate(req.Date, loc)
	if err != nil {
		return Window{}, err
	}
	start, err := At(day, req.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := At(day, req.EndTime)
	if err != nil {
		return Window{}, err
	}

	if !end.After(start) {
		return Window{}, httperr.Validation("invalid_time_range", "end time must be after start time")
	}

	span := end.Sub(start)
	if span%durationStep != 0 {
		return Window{}, httperr.Validation("invalid_duration", "duration must be a multiple of 30 minutes")
	}

	hours := span.Hours()
	if err := checkDuration(hours); err != nil {
		return Window{}, err
	}

	if req.Duration != 0 && math.Abs(req.Duration-hours) > 1e-9 {
		return Window{}, httperr.Validation(
			"duration_mismatch",
			fmt.Sprintf("duration %.1fh does not match %s-%s", req.Duration, req.StartTime, req.EndTime),
		)
	}

	return Window{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Start:     start,
		End:       end,
		Duration:  hours,
	}, nil
}

// ValidateDuration checks a session length in hours on its own.
func ValidateDuration(hours float64) error {
	return checkDuration(hours)
}

func checkDuration(hours float64) error {
	if math.IsNaN(hours) || hours < MinDurationHours || hours > MaxDurationHours {
		return httperr.Validation(
			"invalid_duration",
			fmt.Sprintf("duration must be between %.1f and %.0f hours", MinDurationHours, MaxDurationHours),
		)
	}
	if !isHalfHourMultiple(hours) {
		return httperr.Validation("invalid_duration", "duration must be a multiple of 0.5 hours")
	}
	return nil
}

func isHalfHourMultiple(hours float64) bool {
	halves := hours * 2
	return halves == math.Trunc(halves)
}

// ValidateSlot decides whether w can be booked. It is pure: availability and
// the tutor's bookings for the day are passed in, nothing is written.
func ValidateSlot(
	availability []models.AvailabilitySlot,
	w Window,
	existing []models.Booking,
	now time.Time,
) error {

	if !w.Start.After(now) {
		return httperr.Validation("start_in_past", "cannot book a session in the past")
	}

	if !withinAvailability(availability, w) {
		return httperr.SlotConflict("outside_availability", "tutor is not available at this time")
	}

	for _, b := range existing {
		if !Status(b.Status).Blocking() {
			continue
		}
		if Overlaps(w.Start, w.End, b.StartAt, b.EndAt) {
			return httperr.SlotConflict("time_conflict", "this time slot is already booked")
		}
	}

	return nil
}

// withinAvailability reports whether w fits entirely inside one slot of its
// weekday.
func withinAvailability(availability []models.AvailabilitySlot, w Window) bool {
	weekday := int(w.Start.Weekday())
	day := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, w.Start.Location())

	for _, slot := range availability {
		if slot.Weekday != weekday {
			continue
		}
		slotStart, err := At(day, slot.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := At(day, slot.EndTime)
		if err != nil {
			continue
		}
		if !w.Start.Before(slotStart) && !w.End.After(slotEnd) {
			return true
		}
	}
	return false
}
