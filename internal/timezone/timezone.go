package timezone

import (
	"strings"
	"time"
)

const DefaultZone = "Europe/Amsterdam"

// Load resolves a zone name. "Local" and "" map to the process zone;
// fixed offsets such as "UTC+2" are accepted for hosts without tzdata.
func Load(name string) (*time.Location, error) {
	switch strings.ToUpper(name) {
	case "", "LOCAL":
		return time.Local, nil
	case "UTC", "UTC+0":
		return time.UTC, nil
	case "UTC+1":
		return time.FixedZone("UTC+1", 1*60*60), nil
	case "UTC+2":
		return time.FixedZone("UTC+2", 2*60*60), nil
	}
	return time.LoadLocation(name)
}

// StartOfDay returns local midnight of the calendar day t falls on in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	a = a.In(loc)
	b = b.In(loc)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight in loc.
// A full RFC3339 timestamp is accepted too and truncated to its day.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &time.ParseError{
			Value:   s,
			Message: "unable to parse calendar date",
		}
	}
	return StartOfDay(t, loc), nil
}
