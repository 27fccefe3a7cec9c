package model

import "time"

// Event is a single, non-recurring session ready to be written out as a
// calendar document.
type Event struct {
	// UID is the iCalendar UID. Left empty, the serializer generates one.
	UID string

	Title       string
	Description string
	Location    string

	// Start / End carry the event's own timezone. Serialization always
	// writes them in UTC.
	Start time.Time
	End   time.Time
}

// Duration returns the absolute elapsed time between start and end, which
// differs from the wall-clock length on daylight-saving transition days.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
