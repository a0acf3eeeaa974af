package schedule

import "time"

// AppointmentLayout is the combined form of an appointment's Date and Time
// fields ("2006-01-02" + "15:04").
const AppointmentLayout = "2006-01-02 15:04"

// AvailableAt reports whether a caregiver with the given stored availability
// is available at the instant: the weekday must match the slot's day and the
// clock time must fall inside the slot's window. An availability string that
// does not parse to a known slot is never available.
func AvailableAt(availability string, at time.Time) bool {
	slot := ParseSlot(availability)
	if !slot.Valid {
		return false
	}
	return at.Weekday() == slot.Day && slot.Period.contains(at)
}

// AvailableAtClock is AvailableAt for an appointment's raw Date and Time
// strings. Input that does not parse is treated as unavailable.
func AvailableAtClock(availability, date, clock string) bool {
	at, err := time.Parse(AppointmentLayout, date+" "+clock)
	if err != nil {
		return false
	}
	return AvailableAt(availability, at)
}

// AvailableOverRange reports whether the caregiver's weekly slot occurs at
// least once between start and end. It steps whole days from the start
// instant while the stepped instant is not after end, so every stepped day
// keeps the start's clock time; a day matches when its weekday is the slot's
// day and that carried clock time falls inside the slot's window.
//
// This deliberately checks the range at the same clock time as its start, not
// that the caregiver is free for the whole range. A stricter check would ask
// whether the slot's weekday falls anywhere in [start.Date, end.Date]
// regardless of clock time; the carried-time behavior is kept because stored
// schedules were accepted under it. If end is before start the walk runs zero
// times and the result is false.
func AvailableOverRange(availability string, start, end time.Time) bool {
	slot := ParseSlot(availability)
	if !slot.Valid {
		return false
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == slot.Day && slot.Period.contains(day) {
			return true
		}
	}
	return false
}
