package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts a "H:MM AM|PM" wall-clock string into minutes since midnight.
func ParseClock(raw string) (int, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	var meridiem string
	switch {
	case strings.HasSuffix(value, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(value, "PM"):
		meridiem = "PM"
	default:
		return 0, fmt.Errorf("%w: %q is missing AM/PM", ErrInvalidClock, raw)
	}
	clock := strings.TrimSpace(strings.TrimSuffix(value, meridiem))

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 || !digits(hh) || !digits(mm) {
		return 0, fmt.Errorf("%w: %q is not H:MM", ErrInvalidClock, raw)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 1 || hours > 12 {
		return 0, fmt.Errorf("%w: %q has an invalid hour", ErrInvalidClock, raw)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q has invalid minutes", ErrInvalidClock, raw)
	}

	if meridiem == "AM" && hours == 12 {
		hours = 0
	}
	if meridiem == "PM" && hours != 12 {
		hours += 12
	}
	return hours*60 + minutes, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as "H:MM AM|PM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hours, mins := minutes/60, minutes%60
	meridiem := "AM"
	if hours >= 12 {
		meridiem = "PM"
	}
	if hours > 12 {
		hours -= 12
	}
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%d:%02d %s", hours, mins, meridiem)
}
