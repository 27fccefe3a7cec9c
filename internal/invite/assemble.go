package invite

import "time"

// Window is a start/end pair in both the event's own zone and UTC.
type Window struct {
	Start    time.Time
	End      time.Time
	StartUTC time.Time
	EndUTC   time.Time

	// StartWall is the requested wall-clock start with no zone attached
	// (carried in UTC for formatting only). It differs from Start's local
	// reading when the requested time falls in a spring-forward gap.
	StartWall time.Time
}

// Assemble interprets date and clock as wall-clock time in loc and adds d
// as wall-clock time, so the end is always d local time later even when a
// daylight-saving transition falls inside the window. Sub-minute parts of d
// are ignored.
func Assemble(date DateSpec, clock TimeSpec, loc *time.Location, d time.Duration) Window {
	if loc == nil {
		loc = time.UTC
	}
	wall := time.Date(date.Year, date.Month, date.Day, clock.Hour, clock.Minute, 0, 0, time.UTC)
	start := inZone(wall, loc)
	end := inZone(wall.Add(d.Truncate(time.Minute)), loc)
	return Window{
		Start:     start,
		End:       end,
		StartUTC:  start.UTC(),
		EndUTC:    end.UTC(),
		StartWall: wall,
	}
}

// inZone places a naive wall-clock reading (carried in UTC) in loc. A
// reading that does not exist because the clocks jump forward is taken with
// the offset in force before the transition, so 02:30 on a US spring-forward
// day lands at 03:30 daylight time.
func inZone(wall time.Time, loc *time.Location) time.Time {
	t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), 0, 0, loc)
	got := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	if got.Equal(wall) {
		return t
	}
	_, before := t.Add(-time.Hour).Zone()
	return wall.Add(-time.Duration(before) * time.Second).In(loc)
}
