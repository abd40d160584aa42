package schedule

import (
	"strings"

	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
)

// LookaheadDays bounds every forward scan for a matching weekday or class.
const LookaheadDays = 14

// ModifierNextWeek shifts a bare weekday into the following week.
const ModifierNextWeek = "next_week"

// Target holds the optional date hints of a query.
type Target struct {
	Date     string
	Weekday  string
	Modifier string
}

// Normalize trims every field.
func (t Target) Normalize() Target {
	return Target{
		Date:     strings.TrimSpace(t.Date),
		Weekday:  strings.TrimSpace(t.Weekday),
		Modifier: strings.TrimSpace(t.Modifier),
	}
}

// IsTemplateQuery reports a bare weekday with no date and no modifier.
// For schedule_day this asks for the recurring list rather than a dated one.
func (t Target) IsTemplateQuery() bool {
	return t.Date == "" && t.Weekday != "" && t.Modifier == ""
}

// ResolvedDate is a concrete date and the weekday it falls on.
type ResolvedDate struct {
	Date    string
	Weekday string
}

// ResolveTarget turns the date hints into a concrete date relative to today.
func ResolveTarget(today string, t Target) ResolvedDate {
	t = t.Normalize()

	if t.Date != "" {
		return ResolvedDate{Date: t.Date, Weekday: calendar.WeekdayName(t.Date)}
	}

	if t.Weekday == "" {
		return ResolvedDate{Date: today, Weekday: calendar.WeekdayName(today)}
	}

	if t.Modifier == ModifierNextWeek {
		nextMonday := calendar.AddDays(calendar.WeekStart(today), 7)
		idx := calendar.MondayIndex(t.Weekday)
		if idx < 0 {
			return ResolvedDate{Date: nextMonday, Weekday: t.Weekday}
		}
		return ResolvedDate{Date: calendar.AddDays(nextMonday, idx), Weekday: t.Weekday}
	}

	want := calendar.CanonicalWeekday(t.Weekday)
	for i := 0; i <= LookaheadDays; i++ {
		d := calendar.AddDays(today, i)
		if calendar.WeekdayName(d) == want {
			return ResolvedDate{Date: d, Weekday: t.Weekday}
		}
	}
	return ResolvedDate{Date: today, Weekday: t.Weekday}
}
