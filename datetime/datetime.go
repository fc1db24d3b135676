package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Display layouts
const (
	ClockLayout  = "15:04"
	StampLayout  = "2006-01-02 15:04"
	SealedLayout = "2006-01-02 15:04:05"
	DateLayout   = "2006-01-02"
)

// Countdown texts
const (
	nowText     = "此刻"
	daysSuffix  = "天后"
	hoursMark   = "时"
	minutesMark = "分后"
	remindText  = " 提醒"
)

// ComputeTrigger combines the calendar day of date (read in date's own
// location) with hour and minute in loc. Seconds and sub-seconds are zeroed.
func ComputeTrigger(date time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}

// ValidateDate returns now instead of candidate when candidate's calendar day
// is strictly before today. The bool reports that a correction happened.
func ValidateDate(candidate, now time.Time) (time.Time, bool) {
	if dayBefore(candidate.In(now.Location()), now) {
		return now, true
	}
	return candidate, false
}

// ValidateTime returns now instead of candidate when candidate is strictly
// before now. The bool reports that a correction happened.
func ValidateTime(candidate, now time.Time) (time.Time, bool) {
	if candidate.Before(now) {
		return now, true
	}
	return candidate, false
}

func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// Countdown renders the time left until a reminder fires.
//
// A day or more renders in whole days, less than that as hours and minutes
// with minutes rounded up, and anything non-positive as "now".
func Countdown(remaining time.Duration) string {
	if remaining <= 0 {
		return nowText
	}

	const day = 24 * time.Hour
	if remaining >= day {
		return fmt.Sprintf("%d%s", remaining/day, daysSuffix)
	}

	totalMinutes := (remaining + time.Minute - 1) / time.Minute
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("%d%s%d%s", hours, hoursMark, minutes, minutesMark)
	}
	return fmt.Sprintf("%d%s", minutes, minutesMark)
}

// CountdownLabel is Countdown with the "remind" suffix used on screen.
func CountdownLabel(remaining time.Duration) string {
	s := Countdown(remaining)
	if remaining <= 0 {
		return s
	}
	return s + remindText
}

// FormatClock renders t as local HH:MM.
func FormatClock(t time.Time) string {
	return t.Local().Format(ClockLayout)
}

// FormatStamp renders t as local yyyy-MM-dd HH:mm.
func FormatStamp(t time.Time) string {
	return t.Local().Format(StampLayout)
}

// FormatSealed renders t as local yyyy-MM-dd HH:mm:ss.
func FormatSealed(t time.Time) string {
	return t.Local().Format(SealedLayout)
}

// Date formats to try, in order of preference
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"Jan 2 2006",
	"January 2 2006",
	"2006年1月2日",
}

// Date formats without a year (current year is used)
var yearlessFormats = []string{
	"01-02",
	"1/2",
	"Jan 2",
	"January 2",
	"1月2日",
}

// Time-of-day formats
var clockFormats = []string{
	"15:04",
	"3:04pm",
	"3:04PM",
	"3:04 pm",
	"3:04 PM",
	"3pm",
	"3PM",
	"3 pm",
	"3 PM",
}

// inDaysPattern matches "in 3 days" and "+3d"
var inDaysPattern = regexp.MustCompile(`^(?:in\s+(\d+)\s*(?:d|day|days)|\+(\d+)d)$`)

// weekdays for parsing
var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseDate parses a calendar day and returns local midnight of that day.
// relativeTo anchors "today", "tomorrow", weekdays, relative days and
// formats without a year.
func ParseDate(input string, relativeTo time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	lower := strings.ToLower(input)
	loc := relativeTo.Location()

	switch lower {
	case "", "today", "今天":
		return midnight(relativeTo), nil
	case "tomorrow", "明天":
		return midnight(relativeTo.AddDate(0, 0, 1)), nil
	}

	if match := inDaysPattern.FindStringSubmatch(lower); match != nil {
		digits := match[1]
		if digits == "" {
			digits = match[2]
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day count in %q", input)
		}
		return midnight(relativeTo.AddDate(0, 0, n)), nil
	}

	if day, ok := weekdays[lower]; ok {
		daysUntil := int(day) - int(relativeTo.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		return midnight(relativeTo.AddDate(0, 0, daysUntil)), nil
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, input, loc); err == nil {
			return t, nil
		}
	}

	for _, format := range yearlessFormats {
		if t, err := time.ParseInLocation(format, input, loc); err == nil {
			return time.Date(relativeTo.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %q", input)
}

// ParseClock parses a time of day and returns its hour and minute.
func ParseClock(input string) (hour, minute int, err error) {
	input = strings.TrimSpace(input)
	for _, format := range clockFormats {
		if t, err := time.Parse(format, input); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("unable to parse time: %q", input)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
