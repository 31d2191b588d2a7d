package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM" (24h) into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time %q, expected HH:MM", ErrValidation, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q", ErrValidation, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q", ErrValidation, s)
	}
	return h, m, nil
}

// FormatClock renders the wall-clock part of t as "HH:MM".
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ClockToday anchors hour:minute on now's date in now's location.
func ClockToday(hour, minute int, now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}
