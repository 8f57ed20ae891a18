package schedule

import "time"

// Clock supplies the current wall-clock time. Injected so elapsed-slot logic
// is testable with fixed times.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DateLayout is the canonical wire format for booking dates.
const DateLayout = "2006-01-02"

// DateOf formats t's calendar date in the canonical layout.
func DateOf(t time.Time) string { return t.Format(DateLayout) }

// ParseDate validates a canonical booking date string.
func ParseDate(s string) (time.Time, error) { return time.Parse(DateLayout, s) }
