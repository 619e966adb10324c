package dateutil

import (
	"fmt"
	"time"
)

// DayFormat is the calendar-date layout used for session keys and streak buckets.
const DayFormat = "2006-01-02"

// Window is a closed calendar-date range [Start, End]. Both bounds are
// inclusive; callers should Normalize before iterating so that partial-day
// timestamps do not shift the range by a day.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// TruncateToDay drops the time-of-day component, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Normalize converts both bounds to UTC midnight.
func (w Window) Normalize() Window {
	return Window{
		Start: TruncateToDay(w.Start.UTC()),
		End:   TruncateToDay(w.End.UTC()),
	}
}

// Valid reports whether Start does not come after End.
func (w Window) Valid() bool {
	return !w.Start.After(w.End)
}

// DayCount returns the number of calendar days in the window, inclusive of
// both bounds. The window must be normalized.
func (w Window) DayCount() int {
	if !w.Valid() {
		return 0
	}
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Days returns every calendar day in the window, inclusive, oldest first.
// The window must be normalized.
func (w Window) Days() []time.Time {
	n := w.DayCount()
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, 0, n)
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start.Format(DayFormat), w.End.Format(DayFormat))
}

// DayKey formats t's calendar date for map keys and document IDs.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// FirstOfMonth returns midnight on the first day of t's month, in t's location.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
