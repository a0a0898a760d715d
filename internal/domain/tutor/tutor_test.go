package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("3", "4.5", "20-40", " Ada ")
	require.NoError(t, err)

	require.NotNil(t, f.SubjectID)
	assert.Equal(t, uint(3), *f.SubjectID)
	assert.Equal(t, 4.5, *f.MinRating)
	assert.Equal(t, 20.0, *f.MinPrice)
	assert.Equal(t, 40.0, *f.MaxPrice)
	assert.Equal(t, "Ada", f.Name)

	f, err = ParseFilter("", "", "60-", "")
	require.NoError(t, err)
	assert.Nil(t, f.SubjectID)
	assert.Equal(t, 60.0, *f.MinPrice)
	assert.Nil(t, f.MaxPrice)

	empty, err := ParseFilter("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, Filter{}, empty)
}

func TestParseFilterRejects(t *testing.T) {
	cases := [][4]string{
		{"abc", "", "", ""},
		{"", "7", "", ""},
		{"", "", "40", ""},
		{"", "", "40-20", ""},
		{"", "", "x-", ""},
	}
	for _, c := range cases {
		_, err := ParseFilter(c[0], c[1], c[2], c[3])
		assert.True(t, httperr.IsKind(err, httperr.KindValidation), "%v", c)
	}
}

func TestCacheKeyIsNormalised(t *testing.T) {
	a, _ := ParseFilter("3", "4", "20-40", "Ada")
	b, _ := ParseFilter(" 3 ", "4.0", "20 - 40", "ada")
	c, _ := ParseFilter("3", "4", "20-", "Ada")

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestFlattenAndGroup(t *testing.T) {
	days := []DayAvailability{
		{Day: "Wednesday", Slots: []TimeRange{{StartTime: "14:00", EndTime: "18:00"}}},
		{Day: "monday", Slots: []TimeRange{{StartTime: "13:00", EndTime: "17:00"}, {StartTime: "09:00", EndTime: "12:00"}}},
	}

	rows, err := Flatten(5, days)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, uint(5), rows[0].TutorID)
	assert.Equal(t, 3, rows[0].Weekday)

	grouped := Group(rows)
	assert.Equal(t, []DayAvailability{
		{Day: "Monday", Slots: []TimeRange{{StartTime: "09:00", EndTime: "12:00"}, {StartTime: "13:00", EndTime: "17:00"}}},
		{Day: "Wednesday", Slots: []TimeRange{{StartTime: "14:00", EndTime: "18:00"}}},
	}, grouped)

	assert.Equal(t, []DayAvailability{}, Group([]models.AvailabilitySlot{}))
}

func TestFlattenRejects(t *testing.T) {
	_, err := Flatten(1, []DayAvailability{{Day: "Funday"}})
	assert.True(t, httperr.IsBusiness(err, "invalid_day"))

	_, err = Flatten(1, []DayAvailability{{Day: "Monday", Slots: []TimeRange{{StartTime: "12:00", EndTime: "09:00"}}}})
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))

	_, err = Flatten(1, []DayAvailability{{Day: "Monday", Slots: []TimeRange{{StartTime: "9am", EndTime: "10:00"}}}})
	assert.True(t, httperr.IsBusiness(err, "invalid_time"))

	_, err = Flatten(1, []DayAvailability{
		{Day: "Monday", Slots: []TimeRange{{StartTime: "09:00", EndTime: "12:00"}}},
		{Day: "Monday", Slots: []TimeRange{{StartTime: "11:00", EndTime: "13:00"}}},
	})
	assert.True(t, httperr.IsBusiness(err, "overlapping_availability"))
}
