// ABOUTME: Calendar day windows: half-open [midnight, next midnight) in a fixed location.
// ABOUTME: Day addition goes through time.Date so DST days are 23 or 25 hours long.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrArithmetic is returned when a day window cannot be represented.
var ErrArithmetic = errors.New("calendar arithmetic failure")

const (
	minYear = 1
	maxYear = 9999
)

// Calendar computes local calendar days for one location.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New returns a calendar for loc. A nil loc means time.Local.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc, now: time.Now}
}

// Load returns a calendar for an IANA zone name; "" or "Local" means the system zone.
func Load(name string) (*Calendar, error) {
	if name == "" || name == "Local" {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// WithClock returns a copy of c whose Now reports now().
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	cp := *c
	cp.now = now
	return &cp
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the calendar's location.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// StartOfDay returns local midnight of the day containing t.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// Window is the half-open interval [Start, End) covering one calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns the length of the day, which differs from 24h on DST transitions.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Window returns the day window containing t.
func (c *Calendar) Window(t time.Time) (Window, error) {
	y, m, d := t.In(c.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, c.loc)

	if start.Year() < minYear || end.Year() > maxYear || !end.After(start) {
		return Window{}, fmt.Errorf("%w: no day window for %s", ErrArithmetic, t.Format(time.RFC3339))
	}
	return Window{Start: start, End: end}, nil
}

// Today returns the window for the current day.
func (c *Calendar) Today() (Window, error) {
	return c.Window(c.Now())
}

// AddDays moves day by n calendar days, keeping local midnight.
func (c *Calendar) AddDays(day time.Time, n int) time.Time {
	y, m, d := day.In(c.loc).Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, c.loc)
}

// ParseDay parses a YYYY-MM-DD date as local midnight.
func (c *Calendar) ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDay renders the calendar date of t as YYYY-MM-DD.
func (c *Calendar) FormatDay(t time.Time) string {
	return t.In(c.loc).Format(time.DateOnly)
}
