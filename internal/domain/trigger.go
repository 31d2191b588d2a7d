package domain

import "time"

// NextTrigger computes the next concrete fire instant for a daily reminder.
// The candidate is today at timeOfDay's hour:minute with seconds zeroed; if
// that instant is not strictly after now it rolls to the same time tomorrow.
// A candidate equal to now is already in the past for scheduling purposes.
func NextTrigger(timeOfDay, now time.Time) time.Time {
	candidate := ClockToday(timeOfDay.Hour(), timeOfDay.Minute(), now)
	if candidate.After(now) {
		return candidate
	}
	return candidate.AddDate(0, 0, 1)
}

// SecondsUntil returns the trigger delay used by the interval strategy:
// the rounded distance from now to the instant, floored at one second so the
// underlying timer never receives a non-positive duration.
func SecondsUntil(instant, now time.Time) int {
	secs := int(instant.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
