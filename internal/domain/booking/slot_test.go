package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// 2030-01-07 is a Monday.
const monday = "2030-01-07"

var testNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func mondayNineToFive() []models.AvailabilitySlot {
	return []models.AvailabilitySlot{{TutorID: 1, Weekday: int(time.Monday), StartTime: "09:00", EndTime: "17:00"}}
}

func mustWindow(t *testing.T, date, start, end string) Window {
	t.Helper()
	w, err := ParseWindow(SlotRequest{Date: date, StartTime: start, EndTime: end}, time.UTC)
	require.NoError(t, err)
	return w
}

func bookingAt(t *testing.T, status Status, start, end string) models.Booking {
	t.Helper()
	w := mustWindow(t, monday, start, end)
	return models.Booking{
		TutorID:   1,
		Date:      monday,
		StartTime: start,
		EndTime:   end,
		StartAt:   w.Start,
		EndAt:     w.End,
		Status:    string(status),
	}
}

func TestParseWindowDerivesDuration(t *testing.T) {
	w, err := ParseWindow(SlotRequest{Date: monday, StartTime: "10:00", EndTime: "11:30", Duration: 1.5}, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 1.5, w.Duration)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, 90*time.Minute, w.End.Sub(w.Start))
}

func TestParseWindowRejects(t *testing.T) {
	cases := []struct {
		name string
		req  SlotRequest
		code string
	}{
		{"bad date", SlotRequest{Date: "07/01/2030", StartTime: "10:00", EndTime: "11:00"}, "invalid_date"},
		{"bad time", SlotRequest{Date: monday, StartTime: "10h", EndTime: "11:00"}, "invalid_time"},
		{"end before start", SlotRequest{Date: monday, StartTime: "11:00", EndTime: "10:00"}, "invalid_time_range"},
		{"empty interval", SlotRequest{Date: monday, StartTime: "10:00", EndTime: "10:00"}, "invalid_time_range"},
		{"not half hour", SlotRequest{Date: monday, StartTime: "10:00", EndTime: "10:45"}, "invalid_duration"},
		{"nine hours derived", SlotRequest{Date: monday, StartTime: "08:00", EndTime: "17:00"}, "invalid_duration"},
		{"nine hours requested", SlotRequest{Date: monday, StartTime: "08:00", EndTime: "17:00", Duration: 9}, "invalid_duration"},
		{"odd requested duration", SlotRequest{Date: monday, StartTime: "10:00", EndTime: "11:00", Duration: 0.7}, "invalid_duration"},
		{"mismatch", SlotRequest{Date: monday, StartTime: "10:00", EndTime: "11:00", Duration: 2}, "duration_mismatch"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseWindow(tc.req, time.UTC)
			require.Error(t, err)
			assert.True(t, httperr.IsKind(err, httperr.KindValidation))
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestValidateSlotAcceptsFreeWindow(t *testing.T) {
	w := mustWindow(t, monday, "10:00", "11:30")

	err := ValidateSlot(mondayNineToFive(), w, nil, testNow)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, w.Duration)
}

func TestValidateSlotRejectsOverlap(t *testing.T) {
	existing := []models.Booking{bookingAt(t, StatusConfirmed, "10:00", "11:00")}
	w := mustWindow(t, monday, "10:30", "11:30")

	err := ValidateSlot(mondayNineToFive(), w, existing, testNow)
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.True(t, httperr.IsKind(err, httperr.KindSlotConflict))
}

func TestValidateSlotAllowsTouchingIntervals(t *testing.T) {
	existing := []models.Booking{bookingAt(t, StatusPending, "10:00", "11:00")}

	assert.NoError(t, ValidateSlot(mondayNineToFive(), mustWindow(t, monday, "11:00", "12:00"), existing, testNow))
	assert.NoError(t, ValidateSlot(mondayNineToFive(), mustWindow(t, monday, "09:00", "10:00"), existing, testNow))
}

func TestValidateSlotIgnoresFinishedBookings(t *testing.T) {
	existing := []models.Booking{
		bookingAt(t, StatusCancelled, "10:00", "11:00"),
		bookingAt(t, StatusCompleted, "10:00", "11:00"),
	}

	assert.NoError(t, ValidateSlot(mondayNineToFive(), mustWindow(t, monday, "10:00", "11:00"), existing, testNow))
}

func TestValidateSlotAvailability(t *testing.T) {
	split := []models.AvailabilitySlot{
		{Weekday: int(time.Monday), StartTime: "09:00", EndTime: "12:00"},
		{Weekday: int(time.Monday), StartTime: "13:00", EndTime: "17:00"},
	}

	assert.NoError(t, ValidateSlot(split, mustWindow(t, monday, "09:00", "12:00"), nil, testNow))
	assert.NoError(t, ValidateSlot(split, mustWindow(t, monday, "16:00", "17:00"), nil, testNow))

	err := ValidateSlot(split, mustWindow(t, monday, "11:30", "13:30"), nil, testNow)
	assert.True(t, httperr.IsBusiness(err, "outside_availability"))

	err = ValidateSlot(split, mustWindow(t, monday, "08:30", "09:30"), nil, testNow)
	assert.True(t, httperr.IsBusiness(err, "outside_availability"))

	err = ValidateSlot(split, mustWindow(t, "2030-01-08", "10:00", "11:00"), nil, testNow)
	assert.True(t, httperr.IsBusiness(err, "outside_availability"))
}

func TestValidateSlotRejectsPast(t *testing.T) {
	w := mustWindow(t, monday, "10:00", "11:00")
	now := w.Start.Add(time.Minute)

	err := ValidateSlot(mondayNineToFive(), w, nil, now)
	assert.True(t, httperr.IsBusiness(err, "start_in_past"))
}

func TestValidateSlotUsesTutorTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	w, err := ParseWindow(SlotRequest{Date: monday, StartTime: "09:00", EndTime: "10:00"}, loc)
	require.NoError(t, err)

	assert.Equal(t, 12, w.Start.UTC().Hour())
	assert.NoError(t, ValidateSlot(mondayNineToFive(), w, nil, testNow))
}

// Sequentially accepting every candidate that passes validation must never
// produce two overlapping blocking bookings.
func TestAcceptedBookingsNeverOverlap(t *testing.T) {
	var accepted []models.Booking

	for startHalf := 18; startHalf < 34; startHalf++ {
		for length := 1; length <= 6; length++ {
			start := clockFromHalves(startHalf)
			end := clockFromHalves(startHalf + length)
			if startHalf+length > 34 {
				continue
			}
			w := mustWindow(t, monday, start, end)
			if ValidateSlot(mondayNineToFive(), w, accepted, testNow) == nil {
				accepted = append(accepted, models.Booking{StartAt: w.Start, EndAt: w.End, Status: string(StatusPending)})
			}
		}
	}

	require.NotEmpty(t, accepted)
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			assert.False(t, Overlaps(accepted[i].StartAt, accepted[i].EndAt, accepted[j].StartAt, accepted[j].EndAt))
		}
	}
}

func clockFromHalves(h int) string {
	return time.Date(2000, 1, 1, h/2, (h%2)*30, 0, 0, time.UTC).Format(ClockLayout)
}

func TestFreeSlots(t *testing.T) {
	day, err := ParseDate(monday, time.UTC)
	require.NoError(t, err)

	av := []models.AvailabilitySlot{{Weekday: int(time.Monday), StartTime: "09:00", EndTime: "12:00"}}
	existing := []models.Booking{bookingAt(t, StatusConfirmed, "10:00", "11:00")}

	slots := FreeSlots(av, day, time.Hour, existing, testNow)

	assert.Equal(t, []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "11:00", End: "12:00"},
	}, slots)

	assert.Empty(t, FreeSlots(av, day.AddDate(0, 0, 1), time.Hour, nil, testNow))
}
