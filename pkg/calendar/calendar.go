// Package calendar holds the civil date helpers used by the schedule engine.
// Dates travel as YYYY-MM-DD strings and clock times as HH:MM strings; both are
// fixed width so lexical comparison matches chronological order.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO civil date layout used across the API.
	DateLayout = "2006-01-02"
	// ClockLayout is the 24-hour wall clock layout of class rows.
	ClockLayout = "15:04"
	// DefaultZoneName is the civil timezone the timetable lives in.
	DefaultZoneName = "Asia/Bangkok"
)

// Thai weekday names as stored in the day column.
const (
	Monday    = "จันทร์"
	Tuesday   = "อังคาร"
	Wednesday = "พุธ"
	Thursday  = "พฤหัสบดี"
	Friday    = "ศุกร์"
	Saturday  = "เสาร์"
	Sunday    = "อาทิตย์"

	// ThursdayShort is a legacy alias some rows were saved with.
	ThursdayShort = "พฤหัส"
)

// byWeekday is indexed by time.Weekday, so index 0 is Sunday.
var byWeekday = [7]string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// mondayFirst is the display and sort ordering of the week.
var mondayFirst = [7]string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var monthShort = [12]string{"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.", "ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค."}

// FixedZone is the UTC+7 offset used when the tz database is unavailable.
var FixedZone = time.FixedZone(DefaultZoneName, 7*60*60)

// LoadZone resolves a named zone, falling back to the fixed UTC+7 offset.
func LoadZone(name string) *time.Location {
	if name == "" {
		return FixedZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return FixedZone
	}
	return loc
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today formats the civil date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// ClockOf formats the HH:MM wall clock of now in loc.
func ClockOf(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(ClockLayout)
}

// ParseDate parses a YYYY-MM-DD string anchored at UTC noon.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}

// IsDate reports whether s is a valid YYYY-MM-DD date.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// AddDays shifts a civil date by n days. Invalid input is returned unchanged.
func AddDays(date string, n int) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, n).Format(DateLayout)
}

// WeekdayName returns the Thai weekday of date, or "" when date is invalid.
func WeekdayName(date string) string {
	d, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return byWeekday[d.Weekday()]
}

// MondayIndex returns the Monday-first index of a weekday name, -1 if unknown.
func MondayIndex(weekday string) int {
	if weekday == ThursdayShort {
		return 3
	}
	for i, name := range mondayFirst {
		if name == weekday {
			return i
		}
	}
	return -1
}

// IsWeekday reports whether name is one of the seven canonical weekday names.
func IsWeekday(name string) bool {
	for _, w := range mondayFirst {
		if w == name {
			return true
		}
	}
	return false
}

// Weekdays returns the canonical names in Monday-first order.
func Weekdays() []string {
	out := make([]string, len(mondayFirst))
	copy(out, mondayFirst[:])
	return out
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date string) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	offset := (int(d.Weekday()) + 6) % 7
	return AddDays(date, -offset)
}

// FormatDisplayTitle renders "วัน<weekday> (<DD> <MonShort>)".
func FormatDisplayTitle(weekday, date string) string {
	if date == "" {
		if weekday == "" {
			return "ตารางเรียน"
		}
		return "วัน" + weekday
	}
	d, err := ParseDate(date)
	if err != nil {
		if weekday == "" {
			return "ตารางเรียน"
		}
		return "วัน" + weekday
	}
	if weekday == "" {
		weekday = byWeekday[d.Weekday()]
	}
	return fmt.Sprintf("วัน%s (%02d %s)", weekday, d.Day(), monthShort[d.Month()-1])
}

// IsHHMM reports whether s has the HH:MM shape.
func IsHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for i, r := range s {
		if i == 2 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Minutes converts HH:MM into minutes after midnight; ok is false for malformed input.
func Minutes(hhmm string) (int, bool) {
	if !IsHHMM(hhmm) {
		return 0, false
	}
	h, errH := strconv.Atoi(hhmm[:2])
	m, errM := strconv.Atoi(hhmm[3:])
	if errH != nil || errM != nil {
		return 0, false
	}
	return h*60 + m, true
}

// InRange reports start <= now < end.
func InRange(now, start, end string) bool {
	n, okN := Minutes(now)
	s, okS := Minutes(start)
	e, okE := Minutes(end)
	if !okN || !okS || !okE {
		return false
	}
	return n >= s && n < e
}

// DayBounds returns the first and last second of date in loc as RFC3339 strings.
func DayBounds(date string, loc *time.Location) (string, string) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return date + "T00:00:00+07:00", date + "T23:59:59+07:00"
	}
	start := d
	end := d.Add(24*time.Hour - time.Second)
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}

// CanonicalWeekday folds legacy aliases onto the canonical weekday name.
func CanonicalWeekday(name string) string {
	name = strings.TrimSpace(name)
	if name == ThursdayShort {
		return Thursday
	}
	return name
}

// NormalizeClock accepts the loose times people type ("930", "9.30", "9:5",
// "2:00 pm") and returns them as 24-hour HH:MM. ok is false when the input is
// not a valid time of day.
func NormalizeClock(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	suffix := ""
	for _, sfx := range []string{"am", "pm"} {
		if strings.HasSuffix(s, sfx) {
			suffix = sfx
			s = strings.TrimSpace(strings.TrimSuffix(s, sfx))
			break
		}
	}
	s = strings.Replace(s, ".", ":", 1)
	if s == "" {
		return "", false
	}

	var h, m string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		h, m = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		if len(h) == 0 || len(h) > 2 || len(m) == 0 || len(m) > 2 {
			return "", false
		}
	} else {
		switch len(s) {
		case 3:
			h, m = s[:1], s[1:]
		case 4:
			h, m = s[:2], s[2:]
		default:
			return "", false
		}
	}

	hh, errH := strconv.Atoi(h)
	mm, errM := strconv.Atoi(m)
	if errH != nil || errM != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return "", false
	}
	if suffix != "" {
		if hh < 1 || hh > 12 {
			return "", false
		}
		switch {
		case suffix == "am" && hh == 12:
			hh = 0
		case suffix == "pm" && hh < 12:
			hh += 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hh, mm), true
}
