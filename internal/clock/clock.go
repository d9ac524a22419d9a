// Package clock supplies wall-clock time and calendar-day resolution to the
// journal. Timestamps are stored in UTC; day keys are resolved in the user's
// timezone so "today" matches the user's calendar.
package clock

import (
	"fmt"
	"time"

	"github.com/roach88/onebreath/internal/entry"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// NowISO renders c.Now() as a canonical timestamp.
func NowISO(c Clock) string {
	return entry.FormatISO(c.Now())
}

// LoadLocation resolves an IANA timezone name. The empty name means the
// process's local zone.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// DayKey returns the YYYY-MM-DD key of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(entry.YMDLayout)
}

// TodayKey returns the day key of now in the named timezone.
func TodayKey(now time.Time, tz string) (string, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return DayKey(now, loc), nil
}
