// Package schedule resolves timetable intents into concrete day, week and
// single-class answers. Everything here is pure: the caller supplies the term
// rows, the overlay records and the current date and clock.
package schedule

import "strings"

// Intent is a named query shape understood by the dispatcher.
type Intent string

const (
	IntentAll         Intent = "schedule_all"
	IntentWeek        Intent = "schedule_week"
	IntentDay         Intent = "schedule_day"
	IntentDayEndTime  Intent = "schedule_day_endtime"
	IntentFirst       Intent = "schedule_first"
	IntentLast        Intent = "schedule_last"
	IntentCurrent     Intent = "schedule_current"
	IntentNext        Intent = "schedule_next"
	IntentUnsupported Intent = ""
)

var knownIntents = map[Intent]struct{}{
	IntentAll:        {},
	IntentWeek:       {},
	IntentDay:        {},
	IntentDayEndTime: {},
	IntentFirst:      {},
	IntentLast:       {},
	IntentCurrent:    {},
	IntentNext:       {},
}

// ParseIntent maps a raw intent name to an Intent. A blank name means
// schedule_all; unknown names map to IntentUnsupported.
func ParseIntent(raw string) Intent {
	name := strings.TrimSpace(raw)
	if name == "" {
		return IntentAll
	}
	intent := Intent(name)
	if _, ok := knownIntents[intent]; ok {
		return intent
	}
	return IntentUnsupported
}

// Response modes.
const (
	ModeAll    = "all"
	ModeDay    = "day"
	ModeWeek   = "week"
	ModeSingle = "single"
	ModeStatus = "status"
)

// Response views.
const (
	ViewAll            = "all"
	ViewDayTemplate    = "day_template"
	ViewDaySpecific    = "day_specific"
	ViewWeek           = "week"
	ViewSingle         = "single"
	ViewStatus         = "status"
	ViewHolidayFullDay = "holiday_full_day"
	ViewEndTime        = "endtime"
)

// ResponseType tags every payload produced by the dispatcher.
const ResponseType = "schedule"

// ErrUnsupportedIntent is the error string echoed for unknown intents.
const ErrUnsupportedIntent = "unsupported intent"
