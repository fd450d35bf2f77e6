package utils

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// LoadReferenceZone loads the civil timezone every timestamp is normalized to.
func LoadReferenceZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseReferenceTime parses an ISO-8601 timestamp and converts it to loc.
// Values carrying an offset are converted; naive values are read as wall time in loc.
func ParseReferenceTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("time must be RFC 3339 or 'YYYY-MM-DDThh:mm[:ss]', got %q", value)
}
