package schedule

import (
	"strconv"
	"strings"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
)

// CancelAllTitle names the derived holiday produced when every class is canceled.
const CancelAllTitle = "ยกคลาสทั้งวัน"

// OverlayStatus tags the outcome of reading the overlay store.
type OverlayStatus int

const (
	// OverlaySkipped means the intent never asked for overlays.
	OverlaySkipped OverlayStatus = iota
	// OverlayOK carries the records that overlap the target date.
	OverlayOK
	// OverlayUnavailable means the store could not be read.
	OverlayUnavailable
)

// OverlayResult is the tagged result of an overlay fetch.
type OverlayResult struct {
	Status  OverlayStatus
	Records []models.Holiday
}

// OverlayFound wraps the records returned by the store.
func OverlayFound(records []models.Holiday) OverlayResult {
	return OverlayResult{Status: OverlayOK, Records: records}
}

// OverlayFailed marks the store as unreachable.
func OverlayFailed() OverlayResult {
	return OverlayResult{Status: OverlayUnavailable}
}

// DayView is a dated day after the overlay has been applied.
type DayView struct {
	Date      string
	Weekday   string
	Items     []dto.ScheduleItem
	Remaining []dto.ScheduleItem
	// FullDay is the declared all-day holiday, if any.
	FullDay *models.Holiday
	// AllCanceled is set when cancels removed every class of a non-empty day.
	AllCanceled bool
	Cancels     int
	Degraded    bool
}

// IsHoliday reports whether the day collapses into a holiday status.
func (v DayView) IsHoliday() bool {
	return v.FullDay != nil || v.AllCanceled
}

// Holiday summarises the holiday for the response.
func (v DayView) Holiday() *dto.HolidayInfo {
	switch {
	case v.FullDay != nil:
		return &dto.HolidayInfo{
			Type:  string(models.HolidayTypeHoliday),
			Title: strings.TrimSpace(v.FullDay.Title),
			Note:  strings.TrimSpace(v.FullDay.Note),
		}
	case v.AllCanceled:
		return &dto.HolidayInfo{Type: string(models.HolidayTypeCancel), Title: CancelAllTitle}
	case v.Cancels > 0:
		return &dto.HolidayInfo{Type: string(models.HolidayTypeCancel), Count: v.Cancels}
	}
	return nil
}

// HolidayTitle is the reason quoted in holiday messages.
func (v DayView) HolidayTitle() string {
	if v.FullDay != nil {
		return strings.TrimSpace(v.FullDay.Title)
	}
	if v.AllCanceled {
		return CancelAllTitle
	}
	return ""
}

// BuildDayView lists the classes of date and applies the overlay to them.
func BuildDayView(rows []models.Subject, target ResolvedDate, overlay OverlayResult) DayView {
	list := RowsOfDay(rows, target.Weekday)
	view := DayView{Date: target.Date, Weekday: target.Weekday}

	if overlay.Status == OverlayUnavailable {
		view.Degraded = true
		view.Items = make([]dto.ScheduleItem, 0, len(list))
		for _, row := range list {
			view.Items = append(view.Items, datedItem(row, target.Date, false, ""))
		}
		view.Remaining = view.Items
		return view
	}

	var cancels []models.Holiday
	for i := range overlay.Records {
		rec := overlay.Records[i]
		if rec.IsFullDay() && view.FullDay == nil {
			view.FullDay = &rec
		}
		if rec.IsCancel() {
			cancels = append(cancels, rec)
		}
	}
	view.Cancels = len(cancels)
	if view.FullDay != nil {
		view.Items = make([]dto.ScheduleItem, 0)
		view.Remaining = view.Items
		return view
	}

	view.Items = make([]dto.ScheduleItem, 0, len(list))
	view.Remaining = make([]dto.ScheduleItem, 0, len(list))
	for _, row := range list {
		canceled := false
		for _, c := range cancels {
			if MatchCancel(row, c) {
				canceled = true
				break
			}
		}
		item := datedItem(row, target.Date, canceled, "")
		view.Items = append(view.Items, item)
		if !canceled {
			view.Remaining = append(view.Remaining, item)
		}
	}
	view.AllCanceled = len(view.Items) > 0 && len(view.Remaining) == 0
	return view
}

// MatchCancel reports whether a cancel record targets row, either by the
// numeric store id or by subject code. Records without a subject match nothing.
func MatchCancel(row models.Subject, cancel models.Holiday) bool {
	if cancel.SubjectID == nil {
		return false
	}
	sid := strings.TrimSpace(*cancel.SubjectID)
	if sid == "" {
		return false
	}
	if n, err := strconv.ParseInt(sid, 10, 64); err == nil && n == row.ID {
		return true
	}
	code := strings.TrimSpace(row.SubjectCode)
	return code != "" && strings.EqualFold(sid, code)
}
