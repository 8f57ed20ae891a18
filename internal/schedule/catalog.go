package schedule

import "time"

// Slot is one of the fixed daily booking intervals. The catalog is process
// wide: identical across all rooms and all dates, contiguous within each
// half-day block, non-overlapping. Bookings reference a slot by its Label.
type Slot struct {
	Ordinal int
	Label   string
	Start   int // minutes from midnight
	End     int
}

var catalog = []Slot{
	{Ordinal: 0, Label: "08:00-10:00", Start: 8 * 60, End: 10 * 60},
	{Ordinal: 1, Label: "10:00-12:00", Start: 10 * 60, End: 12 * 60},
	{Ordinal: 2, Label: "13:00-15:00", Start: 13 * 60, End: 15 * 60},
	{Ordinal: 3, Label: "15:00-17:00", Start: 15 * 60, End: 17 * 60},
}

// Slots returns the catalog in display order.
func Slots() []Slot {
	out := make([]Slot, len(catalog))
	copy(out, catalog)
	return out
}

func SlotsPerDay() int { return len(catalog) }

// Lookup resolves a canonical slot label.
func Lookup(label string) (Slot, bool) {
	for _, s := range catalog {
		if s.Label == label {
			return s, true
		}
	}
	return Slot{}, false
}

// Elapsed reports whether the slot has already passed for the given booking
// date at the given wall-clock time: the date is today and the slot's end is
// at or before the current time-of-day. Future dates never elapse.
func (s Slot) Elapsed(now time.Time, date string) bool {
	if DateOf(now) != date {
		return false
	}
	return s.End <= minutesOfDay(now)
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
