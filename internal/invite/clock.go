package invite

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeSpec is a wall-clock time of day, independent of any timezone.
type TimeSpec struct {
	Hour   int
	Minute int
}

func (t TimeSpec) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// timeMatcher attempts one time grammar. ok is false when the grammar does
// not apply or a matched value is out of range.
type timeMatcher func(s string) (t TimeSpec, ok bool)

var (
	compactTimeRe  = regexp.MustCompile(`^([0-2]?\d)([0-5]\d)$`)
	colonTimeRe    = regexp.MustCompile(`^([0-2]?\d):([0-5]?\d)$`)
	meridiemTimeRe = regexp.MustCompile(`^([0-1]?\d)(?::([0-5]?\d))?\s*(am|pm)$`)
)

// timeMatchers run in priority order. Compact comes first so that "1700"
// is never read as a 12-hour value.
var timeMatchers = []timeMatcher{
	matchCompact,
	matchColon,
	matchMeridiem,
}

// ParseTime interprets s as a time of day. Input is trimmed, lower-cased and
// stripped of periods first, so "5 P.M." and "5pm" are equivalent.
func ParseTime(s string) (TimeSpec, error) {
	in := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), ".", "")
	for _, m := range timeMatchers {
		if t, ok := m(in); ok {
			return t, nil
		}
	}
	return TimeSpec{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

func matchCompact(s string) (TimeSpec, bool) {
	m := compactTimeRe.FindStringSubmatch(s)
	if m == nil {
		return TimeSpec{}, false
	}
	return clock24(m[1], m[2])
}

func matchColon(s string) (TimeSpec, bool) {
	m := colonTimeRe.FindStringSubmatch(s)
	if m == nil {
		return TimeSpec{}, false
	}
	return clock24(m[1], m[2])
}

func matchMeridiem(s string) (TimeSpec, bool) {
	m := meridiemTimeRe.FindStringSubmatch(s)
	if m == nil {
		return TimeSpec{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return TimeSpec{}, false
	}
	if hour == 12 {
		hour = 0
	}
	if m[3] == "pm" {
		hour += 12
	}
	return TimeSpec{Hour: hour, Minute: minute}, true
}

func clock24(h, m string) (TimeSpec, bool) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour > 23 || minute > 59 {
		return TimeSpec{}, false
	}
	return TimeSpec{Hour: hour, Minute: minute}, true
}
