package schedule

import (
	"sort"
	"strings"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
)

// RowsOfDay returns the rows held on weekday. On-site classes come first and
// online classes last; each group is ordered by start time.
func RowsOfDay(rows []models.Subject, weekday string) []models.Subject {
	want := calendar.CanonicalWeekday(weekday)
	list := make([]models.Subject, 0)
	if want == "" {
		return list
	}
	for _, row := range rows {
		if calendar.CanonicalWeekday(row.Day) == want {
			list = append(list, row)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		oi, oj := list[i].IsOnline(), list[j].IsOnline()
		if oi != oj {
			return !oi
		}
		return strings.TrimSpace(list[i].StartTime) < strings.TrimSpace(list[j].StartTime)
	})
	return list
}

// plainItems wraps rows without any date annotation.
func plainItems(rows []models.Subject) []dto.ScheduleItem {
	items := make([]dto.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ScheduleItem{Subject: row})
	}
	return items
}

// datedItem annotates a row for a concrete date.
func datedItem(row models.Subject, date string, canceled bool, now string) dto.ScheduleItem {
	flag := canceled
	return dto.ScheduleItem{Subject: row, Date: date, Canceled: &flag, Now: now}
}

// firstStartingAfter picks the earliest row whose start is strictly later than now.
func firstStartingAfter(rows []models.Subject, now string) (models.Subject, bool) {
	nowMin, ok := calendar.Minutes(now)
	if !ok {
		return models.Subject{}, false
	}
	var (
		best    models.Subject
		bestMin int
		found   bool
	)
	for _, row := range rows {
		start, ok := calendar.Minutes(row.StartTime)
		if !ok || start <= nowMin {
			continue
		}
		if !found || start < bestMin {
			best, bestMin, found = row, start, true
		}
	}
	return best, found
}

// runningAt finds the row whose [start, end) window contains now.
func runningAt(rows []models.Subject, now string) (models.Subject, bool) {
	for _, row := range rows {
		if !calendar.IsHHMM(row.StartTime) || !calendar.IsHHMM(row.EndTime) {
			continue
		}
		if calendar.InRange(now, row.StartTime, row.EndTime) {
			return row, true
		}
	}
	return models.Subject{}, false
}
