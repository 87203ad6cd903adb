package booking

import (
	"fmt"
	"time"
)

// Interval is a closed range of calendar days. Both ends are included, so
// ranges that share an endpoint day overlap.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval truncates both ends to calendar days and rejects ranges that
// end before they start.
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
	}

	i := Interval{Start: Day(start), End: Day(end)}
	if i.End.Before(i.Start) {
		return Interval{}, fmt.Errorf("%w: endDate %s is before startDate %s",
			ErrValidation, i.End.Format(time.DateOnly), i.Start.Format(time.DateOnly))
	}

	return i, nil
}

// Overlaps reports whether a and b share at least one day:
// a.Start <= b.End && a.End >= b.Start.
func Overlaps(a, b Interval) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

func (i Interval) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(i.Start) && !d.After(i.End)
}

// Days is the number of calendar days covered, counting both ends.
func (i Interval) Days() int {
	return int(i.End.Sub(i.Start).Hours()/24) + 1
}

// Day returns midnight UTC of the calendar date t falls on in its own
// location, so "2024-06-01T00:00:00+05:30" stays on June 1st.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
