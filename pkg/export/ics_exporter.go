package export

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

const icsStampLayout = "20060102T150405Z"

// RecurringEvent is a weekly class occurrence series.
type RecurringEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	// Start and End bound the first occurrence.
	Start time.Time
	End   time.Time
	// Until is the last instant an occurrence may start.
	Until time.Time
	// Skip lists occurrence starts that must not appear in the calendar.
	Skip []time.Time
}

func (ev RecurringEvent) rule() (*rrule.RRule, error) {
	if !ev.End.After(ev.Start) {
		return nil, fmt.Errorf("event %s ends before it starts", ev.UID)
	}
	if ev.Until.Before(ev.Start) {
		return nil, fmt.Errorf("event %s repeats until before its first occurrence", ev.UID)
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: ev.Start.UTC(),
		Until:   ev.Until.UTC(),
	})
}

// WeeklyOccurrences expands the series into the start of every occurrence.
func WeeklyOccurrences(ev RecurringEvent) ([]time.Time, error) {
	r, err := ev.rule()
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}

// ICSExporter renders recurring class events into an iCalendar feed.
type ICSExporter struct {
	ProductID string
	Now       func() time.Time
}

// NewICSExporter constructs an exporter stamping events with the wall clock.
func NewICSExporter(productID string) *ICSExporter {
	return &ICSExporter{ProductID: productID, Now: time.Now}
}

// Render serialises events into a PUBLISH calendar named name.
func (e *ICSExporter) Render(name string, events []RecurringEvent) ([]byte, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	stamp := now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	if e.ProductID != "" {
		cal.SetProductId(e.ProductID)
	}
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		r, err := ev.rule()
		if err != nil {
			return nil, fmt.Errorf("build recurrence: %w", err)
		}
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.SetSummary(ev.Summary)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		vevent.AddRrule(r.OrigOptions.RRuleString())
		for _, skip := range ev.Skip {
			vevent.AddExdate(skip.UTC().Format(icsStampLayout))
		}
	}

	buf := &bytes.Buffer{}
	if err := cal.SerializeTo(buf); err != nil {
		return nil, fmt.Errorf("serialize calendar: %w", err)
	}
	return buf.Bytes(), nil
}
