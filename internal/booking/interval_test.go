package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vivaahaverse/vivaah/internal/booking"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func span(start, end time.Time) booking.Interval {
	return booking.Interval{Start: start, End: end}
}

func TestOverlaps(t *testing.T) {
	existing := span(date(2024, 1, 10), date(2024, 1, 20))

	tests := []struct {
		name string
		b    booking.Interval
		want bool
	}{
		{name: "TouchingEnd", b: span(date(2024, 1, 20), date(2024, 1, 25)), want: true},
		{name: "TouchingStart", b: span(date(2024, 1, 5), date(2024, 1, 10)), want: true},
		{name: "DayAfter", b: span(date(2024, 1, 21), date(2024, 1, 25)), want: false},
		{name: "DayBefore", b: span(date(2024, 1, 1), date(2024, 1, 9)), want: false},
		{name: "Inside", b: span(date(2024, 1, 12), date(2024, 1, 13)), want: true},
		{name: "Covering", b: span(date(2024, 1, 1), date(2024, 2, 1)), want: true},
		{name: "SingleDayInside", b: span(date(2024, 1, 15), date(2024, 1, 15)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(existing, tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(existing))
		})
	}
}

func TestNewInterval(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	got, err := booking.NewInterval(
		time.Date(2024, 6, 1, 0, 30, 0, 0, ist),
		time.Date(2024, 6, 5, 18, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 6, 1), got.Start)
	assert.Equal(t, date(2024, 6, 5), got.End)
	assert.Equal(t, 5, got.Days())

	single, err := booking.NewInterval(date(2024, 6, 1), date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())

	_, err = booking.NewInterval(date(2024, 6, 5), date(2024, 6, 1))
	assert.ErrorIs(t, err, booking.ErrValidation)

	_, err = booking.NewInterval(time.Time{}, date(2024, 6, 1))
	assert.ErrorIs(t, err, booking.ErrValidation)
}

func TestInterval_Contains(t *testing.T) {
	i := span(date(2024, 6, 1), date(2024, 6, 5))

	assert.True(t, i.Contains(date(2024, 6, 1)))
	assert.True(t, i.Contains(time.Date(2024, 6, 5, 23, 59, 0, 0, time.UTC)))
	assert.False(t, i.Contains(date(2024, 5, 31)))
	assert.False(t, i.Contains(date(2024, 6, 6)))
}

func genInterval(t *rapid.T, label string) booking.Interval {
	base := date(2024, 1, 1)
	start := rapid.IntRange(0, 365).Draw(t, label+"_start")
	length := rapid.IntRange(0, 30).Draw(t, label+"_len")

	return span(base.AddDate(0, 0, start), base.AddDate(0, 0, start+length))
}

func TestOverlaps_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genInterval(t, "a")
		b := genInterval(t, "b")

		if booking.Overlaps(a, b) != booking.Overlaps(b, a) {
			t.Fatalf("overlap is not symmetric for %v and %v", a, b)
		}

		if !booking.Overlaps(a, a) {
			t.Fatalf("interval %v does not overlap itself", a)
		}

		// Overlap holds exactly when some day lies in both intervals.
		shared := false
		for d := a.Start; !d.After(a.End); d = d.AddDate(0, 0, 1) {
			if b.Contains(d) {
				shared = true
				break
			}
		}

		if shared != booking.Overlaps(a, b) {
			t.Fatalf("Overlaps(%v, %v) = %v, shared day = %v", a, b, booking.Overlaps(a, b), shared)
		}
	})
}
