package model

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey is a timezone-local calendar day in YYYY-MM-DD form
type DateKey string

// String returns the string representation
func (k DateKey) String() string {
	return string(k)
}

// OccurrenceKey identifies one occurrence of a task's obligation
type OccurrenceKey string

// OccurrenceOnce is the fixed key used by one-off tasks
const OccurrenceOnce OccurrenceKey = "once"

// Calendar converts instants into day keys for one timezone
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a calendar for loc (nil means time.Local)
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// LoadCalendar resolves an IANA zone name; empty means time.Local
func LoadCalendar(zone string) (Calendar, error) {
	if zone == "" {
		return NewCalendar(nil), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Calendar{}, NewValidation(fmt.Sprintf("unknown timezone %q", zone))
	}
	return NewCalendar(loc), nil
}

// Location returns the calendar's zone
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Key returns the day key of t in the calendar's zone
func (c Calendar) Key(t time.Time) DateKey {
	return DateKey(t.In(c.Location()).Format(dateKeyLayout))
}

// Today is Key(now)
func (c Calendar) Today(now time.Time) DateKey {
	return c.Key(now)
}

// StartOfDay returns local midnight of the day named by key
func (c Calendar) StartOfDay(key DateKey) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, string(key), c.Location())
	if err != nil {
		return time.Time{}, NewValidation(fmt.Sprintf("invalid date key %q", key))
	}
	return t, nil
}

// ParseDateKey validates the YYYY-MM-DD form
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(dateKeyLayout, s); err != nil {
		return "", NewValidation(fmt.Sprintf("invalid date key %q", s))
	}
	return DateKey(s), nil
}
