package scheduler

import "errors"

var (
	// ErrInvalidClock reports a time string that is not "H:MM AM|PM".
	ErrInvalidClock = errors.New("invalid clock time")
	// ErrInvalidSettings reports settings that cannot produce a layout.
	ErrInvalidSettings = errors.New("invalid timetable settings")
	// ErrInvalidAvailability reports availability outside the week or the period range.
	ErrInvalidAvailability = errors.New("invalid faculty availability")
	// ErrNoFaculty is returned when a department has nobody on the roster.
	ErrNoFaculty = errors.New("no faculty for department")
)
