package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// at builds a deterministic instant on the first given weekday on or after
// Monday 2026-01-05.
func at(day time.Weekday, hour, min int) time.Time {
	base := time.Date(2026, time.January, 5, hour, min, 0, 0, time.UTC) // a Monday
	offset := (int(day) - int(base.Weekday()) + 7) % 7
	return base.AddDate(0, 0, offset)
}

// clock re-times an instant on the same date.
func clock(t time.Time, hour, min int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, t.Location())
}

func TestAvailableAt(t *testing.T) {
	tests := []struct {
		day          time.Weekday
		hour, min    int
		availability string
		want         bool
	}{
		{time.Monday, 10, 0, "MondayMorning", true},
		{time.Monday, 14, 0, "MondayAfternoon", true},
		{time.Tuesday, 11, 0, "TuesdayMorning", true},
		{time.Tuesday, 16, 0, "TuesdayAfternoon", true},

		// window boundaries: starts inclusive, ends exclusive
		{time.Monday, 9, 0, "MondayMorning", true},
		{time.Monday, 11, 59, "MondayMorning", true},
		{time.Monday, 12, 0, "MondayMorning", false},
		{time.Monday, 13, 0, "MondayAfternoon", true},
		{time.Monday, 16, 59, "MondayAfternoon", true},
		{time.Monday, 17, 0, "MondayAfternoon", false},

		// the midday gap and out-of-hours times never match
		{time.Monday, 12, 30, "MondayMorning", false},
		{time.Monday, 12, 30, "MondayAfternoon", false},
		{time.Saturday, 8, 0, "SaturdayMorning", false},
		{time.Sunday, 20, 0, "SundayAfternoon", false},

		// wrong weekday
		{time.Saturday, 10, 0, "MondayMorning", false},
	}

	for _, tc := range tests {
		name := fmt.Sprintf("%s_%02d:%02d_%s", tc.day, tc.hour, tc.min, tc.availability)
		t.Run(name, func(t *testing.T) {
			got := AvailableAt(tc.availability, at(tc.day, tc.hour, tc.min))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAvailableAt_UnparsableAvailabilityFailsClosed(t *testing.T) {
	// even an instant inside every window is rejected when the stored value
	// is not a known slot
	instant := at(time.Monday, 10, 0)
	for _, raw := range []string{"", "garbage", "MondayEvening"} {
		assert.False(t, AvailableAt(raw, instant), "availability %q", raw)
	}
}

func TestAvailableAtClock(t *testing.T) {
	assert.True(t, AvailableAtClock("MondayMorning", "2026-01-05", "10:00"))
	assert.False(t, AvailableAtClock("MondayMorning", "2026-01-05", "12:30"))
	assert.False(t, AvailableAtClock("MondayMorning", "not-a-date", "10:00"))
	assert.False(t, AvailableAtClock("MondayMorning", "2026-01-05", "25:99"))
}

func TestAvailableOverRange(t *testing.T) {
	tests := []struct {
		name         string
		startDay     time.Weekday
		startH, minS int
		daysLater    int
		endH, endMin int
		availability string
		want         bool
	}{
		{"tuesday afternoon inside range", time.Tuesday, 15, 0, 1, 16, 0, "TuesdayAfternoon", true},
		{"wednesday morning inside range", time.Wednesday, 9, 0, 1, 11, 0, "WednesdayMorning", true},
		{"carried time misses window", time.Monday, 10, 0, 1, 14, 0, "TuesdayAfternoon", false},
		{"end time excludes matching day", time.Friday, 14, 0, 1, 10, 0, "FridayMorning", false},
		{"thursday afternoon start", time.Thursday, 13, 0, 1, 17, 0, "ThursdayAfternoon", true},
		{"saturday morning start", time.Saturday, 9, 30, 1, 11, 30, "SaturdayMorning", true},
		{"sunday afternoon start", time.Sunday, 14, 0, 1, 16, 0, "SundayAfternoon", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start := at(tc.startDay, tc.startH, tc.minS)
			end := clock(start.AddDate(0, 0, tc.daysLater), tc.endH, tc.endMin)
			assert.Equal(t, tc.want, AvailableOverRange(tc.availability, start, end))
		})
	}
}

func TestAvailableOverRange_SingleDayMatchesAvailableAt(t *testing.T) {
	for _, availability := range []string{"MondayMorning", "TuesdayAfternoon", "SundayMorning"} {
		for _, instant := range []time.Time{
			at(time.Monday, 10, 0),
			at(time.Tuesday, 15, 0),
			at(time.Sunday, 12, 15),
		} {
			assert.Equal(t,
				AvailableAt(availability, instant),
				AvailableOverRange(availability, instant, instant),
				"availability %s at %s", availability, instant)
		}
	}
}

func TestAvailableOverRange_FullWeekFindsCarriedMatch(t *testing.T) {
	// a seven day span always walks through the slot's weekday once; the
	// carried clock time decides the outcome
	start := at(time.Tuesday, 15, 0)
	end := start.AddDate(0, 0, 7)
	assert.True(t, AvailableOverRange("TuesdayAfternoon", start, end))
	assert.True(t, AvailableOverRange("FridayAfternoon", start, end))
	assert.False(t, AvailableOverRange("FridayMorning", start, end))
}

func TestAvailableOverRange_EndBeforeStart(t *testing.T) {
	start := at(time.Tuesday, 15, 0)
	assert.False(t, AvailableOverRange("TuesdayAfternoon", start, start.AddDate(0, 0, -1)))
}

func TestAvailableOverRange_UnparsableAvailability(t *testing.T) {
	start := at(time.Monday, 10, 0)
	assert.False(t, AvailableOverRange("not-a-slot", start, start.AddDate(0, 0, 14)))
}
