package schedule

import (
	"strings"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
)

// State is everything an intent needs to produce its answer.
type State struct {
	Intent    Intent
	RawIntent string
	Target    Target
	Today     string
	Now       string
	Semester  string
	Rows      []models.Subject
	Overlay   OverlayResult
}

// OverlayDate reports the date whose overlay the intent will read, if any.
func OverlayDate(intent Intent, target Target, today string) (string, bool) {
	target = target.Normalize()
	switch intent {
	case IntentDay:
		if target.IsTemplateQuery() {
			return "", false
		}
		return ResolveTarget(today, target).Date, true
	case IntentDayEndTime:
		return ResolveTarget(today, target).Date, true
	}
	return "", false
}

// Dispatch routes the state to the handler of its intent.
func Dispatch(s State) dto.ScheduleResponse {
	s.Target = s.Target.Normalize()
	switch s.Intent {
	case IntentAll:
		return answerAll(s)
	case IntentWeek:
		return answerWeek(s)
	case IntentDay:
		return answerDay(s)
	case IntentDayEndTime:
		return answerEndTime(s)
	case IntentFirst, IntentLast:
		return answerFirstLast(s)
	case IntentCurrent:
		return answerCurrent(s)
	case IntentNext:
		return answerNext(s)
	default:
		return answerUnsupported(s)
	}
}

func base(s State, mode, view string) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		OK:       true,
		Type:     ResponseType,
		Mode:     mode,
		View:     view,
		Today:    s.Today,
		Semester: s.Semester,
		Meta:     dto.ScheduleMeta{Subtitle: subtitle(s.Semester, s.Today)},
		Data:     make([]dto.ScheduleItem, 0),
	}
}

func withTarget(resp dto.ScheduleResponse, s State, date, weekday string, template bool) dto.ScheduleResponse {
	title := titleFor(s.Intent, weekday, date, template)
	resp.Meta.Title = title
	resp.Meta.AltText = title
	if date != "" {
		d := date
		resp.Date = &d
	}
	if weekday != "" {
		w := weekday
		resp.Meta.TargetWeekday = &w
	}
	return resp
}

func answerAll(s State) dto.ScheduleResponse {
	resp := withTarget(base(s, ModeAll, ViewAll), s, "", "", false)
	resp.Data = plainItems(s.Rows)
	return resp
}

func answerWeek(s State) dto.ScheduleResponse {
	target := ResolveTarget(s.Today, s.Target)
	start := calendar.WeekStart(target.Date)

	week := &dto.WeekWindow{Start: start, Dates: make([]string, 7), Days: make([]string, 7)}
	allowed := make(map[string]struct{}, 7)
	for i := 0; i < 7; i++ {
		d := calendar.AddDays(start, i)
		week.Dates[i] = d
		week.Days[i] = calendar.WeekdayName(d)
		allowed[week.Days[i]] = struct{}{}
	}

	rows := make([]models.Subject, 0, len(s.Rows))
	for _, row := range s.Rows {
		if _, ok := allowed[calendar.CanonicalWeekday(row.Day)]; ok {
			rows = append(rows, row)
		}
	}

	resp := withTarget(base(s, ModeWeek, ViewWeek), s, target.Date, "", false)
	resp.Week = week
	resp.Data = plainItems(rows)
	return resp
}

func answerDay(s State) dto.ScheduleResponse {
	if s.Target.IsTemplateQuery() {
		resp := withTarget(base(s, ModeDay, ViewDayTemplate), s, "", s.Target.Weekday, true)
		resp.Data = plainItems(RowsOfDay(s.Rows, s.Target.Weekday))
		return resp
	}

	target := ResolveTarget(s.Today, s.Target)
	view := BuildDayView(s.Rows, target, s.Overlay)

	if view.IsHoliday() {
		resp := withTarget(base(s, ModeStatus, ViewHolidayFullDay), s, target.Date, target.Weekday, false)
		resp.Holiday = view.Holiday()
		resp.Message = holidayMessage(s.Today, target.Date, target.Weekday, view.HolidayTitle())
		return resp
	}

	resp := withTarget(base(s, ModeDay, ViewDaySpecific), s, target.Date, target.Weekday, false)
	resp.Data = view.Items
	resp.Holiday = view.Holiday()
	if view.Degraded {
		resp.Warn = msgOverlayWarning
	}
	if len(view.Items) == 0 {
		resp.Message = msgNoClass
	}
	return resp
}

func answerEndTime(s State) dto.ScheduleResponse {
	target := ResolveTarget(s.Today, s.Target)
	view := BuildDayView(s.Rows, target, s.Overlay)

	if view.IsHoliday() {
		resp := withTarget(base(s, ModeStatus, ViewHolidayFullDay), s, target.Date, target.Weekday, false)
		resp.Holiday = view.Holiday()
		resp.Extra = &dto.ScheduleExtra{}
		resp.Message = holidayMessage(s.Today, target.Date, target.Weekday, view.HolidayTitle())
		return resp
	}

	resp := withTarget(base(s, ModeStatus, ViewEndTime), s, target.Date, target.Weekday, false)
	if view.Degraded {
		resp.Warn = msgOverlayWarning
	}
	if len(view.Remaining) == 0 {
		resp.Extra = &dto.ScheduleExtra{}
		resp.Message = msgNoClass
		return resp
	}

	end := strings.TrimSpace(view.Remaining[len(view.Remaining)-1].EndTime)
	resp.Extra = &dto.ScheduleExtra{}
	if end != "" {
		resp.Extra.EndTime = &end
	}
	resp.Message = endTimeMessage(end)
	return resp
}

func answerFirstLast(s State) dto.ScheduleResponse {
	target := ResolveTarget(s.Today, s.Target)
	list := RowsOfDay(s.Rows, target.Weekday)
	if len(list) == 0 {
		resp := withTarget(base(s, ModeStatus, ViewStatus), s, target.Date, target.Weekday, false)
		resp.Message = msgNoClass
		return resp
	}

	picked := list[0]
	if s.Intent == IntentLast {
		picked = list[len(list)-1]
	}
	resp := withTarget(base(s, ModeSingle, ViewSingle), s, target.Date, target.Weekday, false)
	resp.Data = []dto.ScheduleItem{datedItem(picked, target.Date, false, "")}
	return resp
}

func answerCurrent(s State) dto.ScheduleResponse {
	weekday := calendar.WeekdayName(s.Today)
	today := RowsOfDay(s.Rows, weekday)

	if cur, ok := runningAt(today, s.Now); ok {
		resp := withTarget(base(s, ModeSingle, ViewSingle), s, s.Today, weekday, false)
		resp.Data = []dto.ScheduleItem{datedItem(cur, s.Today, false, s.Now)}
		resp.Message = msgStudyingNow
		return resp
	}

	if next, ok := firstStartingAfter(today, s.Now); ok {
		resp := withTarget(base(s, ModeStatus, ViewStatus), s, s.Today, weekday, false)
		resp.Data = []dto.ScheduleItem{datedItem(next, s.Today, false, s.Now)}
		resp.Message = nextStartsMessage(strings.TrimSpace(next.StartTime))
		return resp
	}

	resp := withTarget(base(s, ModeStatus, ViewStatus), s, s.Today, weekday, false)
	resp.Message = msgNoMoreToday
	return resp
}

func answerNext(s State) dto.ScheduleResponse {
	weekday := calendar.WeekdayName(s.Today)
	today := RowsOfDay(s.Rows, weekday)

	if next, ok := firstStartingAfter(today, s.Now); ok {
		resp := withTarget(base(s, ModeSingle, ViewSingle), s, s.Today, weekday, false)
		resp.Data = []dto.ScheduleItem{datedItem(next, s.Today, false, s.Now)}
		return resp
	}

	for i := 1; i <= LookaheadDays; i++ {
		d := calendar.AddDays(s.Today, i)
		wd := calendar.WeekdayName(d)
		list := RowsOfDay(s.Rows, wd)
		if len(list) == 0 {
			continue
		}
		resp := withTarget(base(s, ModeSingle, ViewSingle), s, d, wd, false)
		resp.Data = []dto.ScheduleItem{datedItem(list[0], d, false, "")}
		resp.Message = nextDayMessage(wd, d)
		return resp
	}

	resp := withTarget(base(s, ModeStatus, ViewStatus), s, s.Today, weekday, false)
	resp.Message = msgNextNotFound
	return resp
}

func answerUnsupported(s State) dto.ScheduleResponse {
	target := ResolveTarget(s.Today, s.Target)
	resp := withTarget(base(s, ModeStatus, ViewStatus), s, target.Date, target.Weekday, false)
	resp.OK = false
	resp.Error = ErrUnsupportedIntent
	resp.Intent = s.RawIntent
	return resp
}
