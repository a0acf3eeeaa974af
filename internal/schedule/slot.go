package schedule

import (
	"fmt"
	"time"
)

// Period is the half of the working day covered by an availability slot.
type Period int

const (
	Morning   Period = iota // [09:00, 12:00)
	Afternoon               // [13:00, 17:00)
)

func (p Period) String() string {
	if p == Afternoon {
		return "Afternoon"
	}
	return "Morning"
}

func (p Period) window() string {
	if p == Afternoon {
		return "1pm-5pm"
	}
	return "9am-12pm"
}

// contains reports whether the clock time of t falls inside the period.
// Both windows are half-open: the start minute counts, the end minute does not.
func (p Period) contains(t time.Time) bool {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	if p == Afternoon {
		return secs >= 13*3600 && secs < 17*3600
	}
	return secs >= 9*3600 && secs < 12*3600
}

// Slot is one of the 14 fixed weekly availability windows a caregiver can
// declare: a weekday paired with a morning or afternoon period. A caregiver's
// availability is stored as the slot name (e.g. "TuesdayAfternoon"); anything
// that does not parse back to a known slot yields Valid=false, which every
// availability check treats as "never available".
type Slot struct {
	Day    time.Weekday
	Period Period
	Valid  bool
}

var slotsByName = func() map[string]Slot {
	m := make(map[string]Slot, 14)
	for d := time.Sunday; d <= time.Saturday; d++ {
		for _, p := range []Period{Morning, Afternoon} {
			s := Slot{Day: d, Period: p, Valid: true}
			m[s.Name()] = s
		}
	}
	return m
}()

// ParseSlot parses a stored availability string. Unknown or empty input
// returns an invalid slot rather than an error: corrupt availability data
// must reject bookings, never crash evaluation.
func ParseSlot(name string) Slot {
	return slotsByName[name]
}

// AllSlots returns the 14 valid slots in weekday order, Sunday first.
func AllSlots() []Slot {
	out := make([]Slot, 0, 14)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, Slot{Day: d, Period: Morning, Valid: true})
		out = append(out, Slot{Day: d, Period: Afternoon, Valid: true})
	}
	return out
}

// Name returns the storage form, e.g. "MondayMorning".
func (s Slot) Name() string {
	return s.Day.String() + s.Period.String()
}

// DisplayName returns the human form used in validation messages,
// e.g. "Monday Morning (9am-12pm)".
func (s Slot) DisplayName() string {
	return fmt.Sprintf("%s %s (%s)", s.Day, s.Period, s.Period.window())
}

// SlotDisplay resolves a raw availability string to its display name,
// falling back to the raw string when it is not a known slot.
func SlotDisplay(availability string) string {
	if s := ParseSlot(availability); s.Valid {
		return s.DisplayName()
	}
	return availability
}
