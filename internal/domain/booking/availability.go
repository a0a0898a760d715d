package booking

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots lists every start time on day, in half-hour steps, where a
// session of the given duration fits inside an availability window without
// touching a blocking booking. Starts not after now are skipped.
func FreeSlots(
	availability []models.AvailabilitySlot,
	day time.Time,
	duration time.Duration,
	existing []models.Booking,
	now time.Time,
) []TimeSlot {

	weekday := int(day.Weekday())

	windows := make([]models.AvailabilitySlot, 0, len(availability))
	for _, a := range availability {
		if a.Weekday == weekday {
			windows = append(windows, a)
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].StartTime < windows[j].StartTime })

	slots := []TimeSlot{}
	for _, w := range windows {
		dayStart, err := At(day, w.StartTime)
		if err != nil {
			continue
		}
		dayEnd, err := At(day, w.EndTime)
		if err != nil {
			continue
		}

		for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(durationStep) {
			slotStart := cur
			slotEnd := cur.Add(duration)

			if !slotStart.After(now) {
				continue
			}

			conflict := false
			for _, b := range existing {
				if Status(b.Status).Blocking() && Overlaps(slotStart, slotEnd, b.StartAt, b.EndAt) {
					conflict = true
					break
				}
			}

			if !conflict {
				slots = append(slots, TimeSlot{
					Start: slotStart.Format(ClockLayout),
					End:   slotEnd.Format(ClockLayout),
				})
			}
		}
	}

	return slots
}
