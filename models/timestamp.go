package models

import "time"

// TimestampLayout is how feedback and historical timestamps are stored.
// Characters 6 to 13 (1-based) are always "MM-DD HH", which the
// historical-average query matches with SUBSTR(timestamp, 6, 8).
const TimestampLayout = "2006-01-02 15:04:05.000000Z07:00"

const slotLayout = "01-02 15"

// FormatTimestamp renders t in the stored layout. t should already be in the reference zone.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// SlotKey returns the month-day-hour key of t.
func SlotKey(t time.Time) string {
	return t.Format(slotLayout)
}

// SlotOf extracts the month-day-hour key from a stored timestamp.
func SlotOf(timestamp string) string {
	if len(timestamp) < 13 {
		return ""
	}
	return timestamp[5:13]
}
