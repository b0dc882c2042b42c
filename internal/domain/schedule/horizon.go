package schedule

import "time"

// Bookings are only accepted from today up to two calendar months ahead.
const HorizonMonths = 2

// DayOf strips the time-of-day, keeping the calendar day as a UTC date.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a "YYYY-MM-DD" calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return DayOf(t), nil
}

func HorizonEnd(today time.Time) time.Time {
	return DayOf(today).AddDate(0, HorizonMonths, 0)
}

// WithinHorizon reports whether date falls in [today, today+2 months].
func WithinHorizon(today, date time.Time) bool {
	d := DayOf(date)
	return !d.Before(DayOf(today)) && !d.After(HorizonEnd(today))
}

// ClampRange restricts [start, end] to the booking horizon. The bool is
// false when nothing of the range survives the clamp.
func ClampRange(today, start, end time.Time) (time.Time, time.Time, bool) {
	lo := DayOf(today)
	hi := HorizonEnd(today)

	s := DayOf(start)
	e := DayOf(end)

	if s.Before(lo) {
		s = lo
	}
	if e.After(hi) {
		e = hi
	}

	if e.Before(s) {
		return time.Time{}, time.Time{}, false
	}

	return s, e, true
}
