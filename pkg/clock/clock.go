// Package clock formats calendar and time-of-day answers as plain spoken
// sentences. Every function is a pure formatter over an explicit instant so
// responses are reproducible in tests; callers pass time.Now() in production.
//
// The phrasing is deliberately simple and unhurried: the assistant's primary
// users are elderly and responses are read aloud.
package clock

import (
	"fmt"
	"time"
)

// Ordinal renders a day number with its English ordinal suffix:
// 1st, 2nd, 3rd, 4th... with the teens (10-20 of each hundred) always "th".
func Ordinal(day int) string {
	suffix := "th"
	if rem := day % 100; rem < 10 || rem > 20 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// MinutePhrase renders a minute the way a person reads a clock aloud:
// 0 is "o'clock", 1 through 9 are "oh N", everything else is the number.
func MinutePhrase(minute int) string {
	switch {
	case minute == 0:
		return "o'clock"
	case minute < 10:
		return fmt.Sprintf("oh %d", minute)
	default:
		return fmt.Sprintf("%d", minute)
	}
}

// Date formats the current date.
func Date(t time.Time) (spoken, display string) {
	weekday := t.Weekday().String()
	month := t.Month().String()

	spoken = fmt.Sprintf("Today is %s, %s %s, %d", weekday, month, Ordinal(t.Day()), t.Year())
	display = fmt.Sprintf("%s, %s %d, %d", weekday, month, t.Day(), t.Year())
	return spoken, display
}

// TimeOfDay formats the current time on a 12-hour clock.
func TimeOfDay(t time.Time) (spoken, display string) {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridian := "am"
	if t.Hour() >= 12 {
		meridian = "pm"
	}

	spoken = fmt.Sprintf("It's %d %s %s", hour, MinutePhrase(t.Minute()), meridian)
	display = t.Format("3:04 PM")
	return spoken, display
}

// Day formats the current day of the week.
func Day(t time.Time) (spoken, display string) {
	name := t.Weekday().String()
	return "Today is " + name, name
}

// MonthCalendar summarizes the current month: its name, how many days it
// has, the weekday it started on, and today's position within it.
func MonthCalendar(t time.Time) (spoken, display string) {
	month := t.Month().String()
	days := daysInMonth(t)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Weekday().String()

	spoken = fmt.Sprintf(
		"We are in the month of %s. This month has %d days in total. "+
			"The first day of %s was a %s. Today is day number %d of the month.",
		month, days, month, start, t.Day())
	display = fmt.Sprintf("%s %d\nDays in month: %d\nStarted on: %s\nCurrent day: %d of %d",
		month, t.Year(), days, start, t.Day(), days)
	return spoken, display
}

// daysInMonth returns the number of days in t's month.
// Day zero of the next month is the last day of this one.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
