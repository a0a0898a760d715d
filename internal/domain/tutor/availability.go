package tutor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type TimeRange struct {
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm"`
}

// DayAvailability is the wire shape of a tutor's week: one entry per day
// name ("Monday") with its windows.
type DayAvailability struct {
	Day   string      `json:"day" binding:"required"`
	Slots []TimeRange `json:"slots" binding:"dive"`
}

func parseWeekday(day string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(day)) {
			return d, true
		}
	}
	return 0, false
}

// Flatten validates a weekly schedule and turns it into rows. Each window
// must have start before end and windows of the same day must not overlap.
func Flatten(tutorID uint, days []DayAvailability) ([]models.AvailabilitySlot, error) {
	type span struct{ start, end int }
	perDay := map[time.Weekday][]span{}

	out := make([]models.AvailabilitySlot, 0)
	for _, d := range days {
		weekday, ok := parseWeekday(d.Day)
		if !ok {
			return nil, httperr.Validation("invalid_day", fmt.Sprintf("unknown day %q", d.Day))
		}

		for _, r := range d.Slots {
			start, err := booking.ParseClock(r.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := booking.ParseClock(r.EndTime)
			if err != nil {
				return nil, err
			}
			if start >= end {
				return nil, httperr.Validation("invalid_time_range", fmt.Sprintf("%s %s-%s: start must be before end", weekday, r.StartTime, r.EndTime))
			}

			for _, s := range perDay[weekday] {
				if start < s.end && s.start < end {
					return nil, httperr.Validation("overlapping_availability", fmt.Sprintf("%s has overlapping windows", weekday))
				}
			}
			perDay[weekday] = append(perDay[weekday], span{start, end})

			out = append(out, models.AvailabilitySlot{
				TutorID:   tutorID,
				Weekday:   int(weekday),
				StartTime: r.StartTime,
				EndTime:   r.EndTime,
			})
		}
	}

	return out, nil
}

// Group is the inverse of Flatten, ordered Sunday first.
func Group(rows []models.AvailabilitySlot) []DayAvailability {
	sorted := append([]models.AvailabilitySlot(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weekday != sorted[j].Weekday {
			return sorted[i].Weekday < sorted[j].Weekday
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	out := []DayAvailability{}
	for _, r := range sorted {
		name := time.Weekday(r.Weekday).String()
		if len(out) == 0 || out[len(out)-1].Day != name {
			out = append(out, DayAvailability{Day: name})
		}
		last := &out[len(out)-1]
		last.Slots = append(last.Slots, TimeRange{StartTime: r.StartTime, EndTime: r.EndTime})
	}
	return out
}
