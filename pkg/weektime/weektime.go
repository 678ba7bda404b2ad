package weektime

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesInHour = 60
	MinutesInDay  = MinutesInHour * 24
	MinutesInWeek = MinutesInDay * 7
)

// DayNames are indexed by weekday, Monday first.
var DayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var (
	ErrParse      = errors.New("malformed minute offset")
	ErrOutOfRange = errors.New("minute offset field out of range")
)

// ParseError reports a string that does not match "DayName HH.MM".
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// OutOfRangeError reports a numeric field outside its domain.
type OutOfRangeError struct {
	Field string
	Value int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of range", e.Field, e.Value)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// MinuteOffset is a number of minutes since 00.00 on Monday.
type MinuteOffset int

var offsetPattern = regexp.MustCompile(`^(\w+) (\d\d)\.(\d\d)$`)

// FromComponents encodes a weekday (0 = Monday), hour and minute. Hours
// past 23 are allowed so a period can run past midnight.
func FromComponents(weekday, hour, minute int) (MinuteOffset, error) {
	switch {
	case weekday < 0 || weekday > 6:
		return 0, &OutOfRangeError{Field: "weekday", Value: weekday}
	case hour < 0:
		return 0, &OutOfRangeError{Field: "hour", Value: hour}
	case minute < 0 || minute > 59:
		return 0, &OutOfRangeError{Field: "minute", Value: minute}
	}
	return MinuteOffset(weekday*MinutesInDay + hour*MinutesInHour + minute), nil
}

// FromMinutes accepts a raw offset. Negative offsets are out of range.
func FromMinutes(n int) (MinuteOffset, error) {
	if n < 0 {
		return 0, &OutOfRangeError{Field: "offset", Value: n}
	}
	return MinuteOffset(n), nil
}

// Parse reads the "DayName HH.MM" form, e.g. "Monday 20.00". Day names
// are matched case-insensitively.
func Parse(s string) (MinuteOffset, error) {
	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s, Reason: `expected "DayName HH.MM"`}
	}

	day := -1
	for i, name := range DayNames {
		if strings.EqualFold(name, m[1]) {
			day = i
			break
		}
	}
	if day < 0 {
		return 0, &ParseError{Input: s, Reason: "unknown day " + m[1]}
	}

	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	return FromComponents(day, hour, minute)
}

// MustParse is Parse for literals known to be well formed.
func MustParse(s string) MinuteOffset {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// String renders the offset as "DayName HH.MM". Offsets beyond Sunday are
// folded onto Sunday with an hour of 24 or more. Offsets read through
// FromMinutes, Parse or JSON are never negative.
func (o MinuteOffset) String() string {
	day := int(o) / MinutesInDay
	if day > 6 {
		day = 6
	}
	if day < 0 {
		day = 0
	}
	rest := int(o) - day*MinutesInDay
	return fmt.Sprintf("%s %02d.%02d", DayNames[day], rest/MinutesInHour, rest%MinutesInHour)
}

// MarshalJSON always writes the integer form.
func (o MinuteOffset) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(o))
}

// UnmarshalJSON accepts an integer or a "DayName HH.MM" string.
func (o *MinuteOffset) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		parsed, err := FromMinutes(n)
		if err != nil {
			return err
		}
		*o = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ParseError{Input: string(data), Reason: "expected integer or string"}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Info locates a timestamp within its ISO week.
type Info struct {
	Time    time.Time
	Year    int
	Week    int
	Weekday int // 0 = Monday
	Offset  MinuteOffset
}

// SameWeek reports whether both infos fall in the same ISO year and week.
func (i Info) SameWeek(other Info) bool {
	return i.Year == other.Year && i.Week == other.Week
}

// InfoOf derives the ISO week of t and the offset of its wall clock time,
// in t's own location.
func InfoOf(t time.Time) Info {
	year, week := t.ISOWeek()
	weekday := (int(t.Weekday()) + 6) % 7
	return Info{
		Time:    t,
		Year:    year,
		Week:    week,
		Weekday: weekday,
		Offset:  MinuteOffset(weekday*MinutesInDay + t.Hour()*MinutesInHour + t.Minute()),
	}
}

// WeekStart returns 00.00 on the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	info := InfoOf(t)
	y, m, d := t.Date()
	return time.Date(y, m, d-info.Weekday, 0, 0, 0, 0, t.Location())
}

// At returns the absolute time of offset o in the week starting at monday.
func (o MinuteOffset) At(monday time.Time) time.Time {
	y, m, d := monday.Date()
	return time.Date(y, m, d, 0, int(o), 0, 0, monday.Location())
}
