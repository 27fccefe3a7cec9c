package invite

import "errors"

var (
	// ErrInvalidDate is returned when no date grammar matches the input or
	// the matched date does not exist on the calendar.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidTime is returned when no time grammar matches the input or
	// a matched value is out of range.
	ErrInvalidTime = errors.New("invalid time")
)

const (
	dateHint = "Invalid date format. Try `2025-09-17`, `17/09/2025`, or `17 Sep 2025`."
	timeHint = "Invalid time format. Try `1700`, `17:00`, or `5pm`."
)

// Hint returns the user-facing correction prompt for an error produced by
// this package, or "" if err is not one of ours.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return dateHint
	case errors.Is(err, ErrInvalidTime):
		return timeHint
	default:
		return ""
	}
}
