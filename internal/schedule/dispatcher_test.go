package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
)

const testToday = "2026-03-04" // Wednesday

func row(id int64, day, code, typ, start, end string) models.Subject {
	return models.Subject{
		ID:          id,
		UserID:      "U1",
		Semester:    "1/2567",
		Day:         day,
		SubjectCode: code,
		SubjectName: code + " name",
		Section:     "001",
		Type:        typ,
		Room:        "R1",
		StartTime:   start,
		EndTime:     end,
	}
}

func strPtr(s string) *string { return &s }

func fixtureRows() []models.Subject {
	return []models.Subject{
		row(1, calendar.Wednesday, "CSI101", "lecture", "09:00", "12:00"),
		row(2, calendar.Wednesday, "CSI102", "online", "08:00", "09:00"),
		row(3, calendar.Wednesday, "CSI103", "lecture", "13:00", "16:00"),
		row(4, calendar.Friday, "CSI104", "lab", "10:00", "12:00"),
	}
}

func newState(intent Intent, target Target) State {
	return State{
		Intent:    intent,
		RawIntent: string(intent),
		Target:    target,
		Today:     testToday,
		Now:       "10:30",
		Semester:  "1/2567",
		Rows:      fixtureRows(),
	}
}

func codes(items []dto.ScheduleItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.SubjectCode)
	}
	return out
}

func holidayAt(date string, typ models.HolidayType, allDay bool, subject *string, title string) models.Holiday {
	start, _ := time.ParseInLocation(calendar.DateLayout, date, calendar.FixedZone)
	return models.Holiday{
		ID:        9,
		UserID:    "U1",
		Type:      typ,
		AllDay:    allDay,
		SubjectID: subject,
		StartAt:   start,
		EndAt:     start.Add(24*time.Hour - time.Second),
		Title:     title,
	}
}

func TestRowsOfDayPutsOnlineLast(t *testing.T) {
	rows := []models.Subject{
		row(1, calendar.Monday, "A", "lecture", "09:00", "10:00"),
		row(2, calendar.Monday, "B", "online", "08:00", "09:00"),
		row(3, calendar.Monday, "C", "lecture", "13:00", "14:00"),
		row(4, calendar.Monday, "D", "Online", "07:00", "08:00"),
		row(5, calendar.Tuesday, "E", "lecture", "06:00", "07:00"),
	}
	got := RowsOfDay(rows, calendar.Monday)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"A", "C", "D", "B"}, []string{got[0].SubjectCode, got[1].SubjectCode, got[2].SubjectCode, got[3].SubjectCode})
}

func TestRowsOfDayMatchesThursdayAlias(t *testing.T) {
	rows := []models.Subject{row(1, calendar.ThursdayShort, "A", "lecture", "09:00", "10:00")}
	assert.Len(t, RowsOfDay(rows, calendar.Thursday), 1)
}

func TestDispatchAllKeepsStoreOrder(t *testing.T) {
	resp := Dispatch(newState(IntentAll, Target{}))
	assert.True(t, resp.OK)
	assert.Equal(t, ModeAll, resp.Mode)
	assert.Nil(t, resp.Date)
	assert.Nil(t, resp.Meta.TargetWeekday)
	assert.Equal(t, "เทอม 1/2567 • วันนี้ 2026-03-04", resp.Meta.Subtitle)
	assert.Equal(t, []string{"CSI101", "CSI102", "CSI103", "CSI104"}, codes(resp.Data))
}

func TestDispatchWeekAnchorsOnMonday(t *testing.T) {
	resp := Dispatch(newState(IntentWeek, Target{Date: "2026-03-04"}))
	require.NotNil(t, resp.Week)
	assert.Equal(t, ModeWeek, resp.Mode)
	assert.Equal(t, "2026-03-02", resp.Week.Start)
	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08"}, resp.Week.Dates)
	assert.Equal(t, calendar.Weekdays(), resp.Week.Days)
	assert.Equal(t, "2026-03-04", *resp.Date)
	assert.Len(t, resp.Data, 4)
}

func TestDispatchDayTemplateSkipsOverlay(t *testing.T) {
	s := newState(IntentDay, Target{Weekday: calendar.Wednesday})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt(testToday, models.HolidayTypeHoliday, true, nil, "x")})

	resp := Dispatch(s)
	assert.Equal(t, ViewDayTemplate, resp.View)
	assert.Nil(t, resp.Date)
	assert.Equal(t, "ตารางเรียนวันพุธ (ทั้งเทอม)", resp.Meta.Title)
	assert.Equal(t, []string{"CSI101", "CSI103", "CSI102"}, codes(resp.Data))
	for _, it := range resp.Data {
		assert.Empty(t, it.Date)
		assert.Nil(t, it.Canceled)
	}
}

func TestDispatchDayFullHoliday(t *testing.T) {
	s := newState(IntentDay, Target{Date: testToday})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt(testToday, models.HolidayTypeHoliday, true, nil, "วันมาฆบูชา")})

	resp := Dispatch(s)
	assert.Equal(t, ModeStatus, resp.Mode)
	assert.Equal(t, ViewHolidayFullDay, resp.View)
	assert.Empty(t, resp.Data)
	require.NotNil(t, resp.Holiday)
	assert.Equal(t, "holiday", resp.Holiday.Type)
	assert.Equal(t, "วันนี้เป็นวันหยุดค่ะ 😊 (วันมาฆบูชา)", resp.Message)
}

func TestDispatchDayHolidayTomorrowLabel(t *testing.T) {
	tomorrow := "2026-03-05"
	s := newState(IntentDay, Target{Date: tomorrow})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt(tomorrow, " Holiday ", true, nil, "วันครู")})

	resp := Dispatch(s)
	assert.Equal(t, ViewHolidayFullDay, resp.View)
	require.NotNil(t, resp.Holiday)
	assert.Equal(t, "holiday", resp.Holiday.Type)
	assert.Equal(t, "พรุ่งนี้เป็นวันหยุดค่ะ 😊 (วันครู)", resp.Message)
}

func TestDispatchDayHolidayBeyondRelativeRangeUsesTitle(t *testing.T) {
	monday := "2026-03-09"
	s := newState(IntentDay, Target{Date: monday})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt(monday, models.HolidayTypeHoliday, true, nil, "สอบกลางภาค")})

	resp := Dispatch(s)
	assert.Equal(t, ViewHolidayFullDay, resp.View)
	assert.Equal(t, calendar.FormatDisplayTitle(calendar.Monday, monday)+" เป็นวันหยุดค่ะ 😊 (สอบกลางภาค)", resp.Message)
	assert.NotContains(t, resp.Message, "พรุ่งนี้")
	assert.NotContains(t, resp.Message, "มะรืน")
}

func TestDispatchEndTimeFullHoliday(t *testing.T) {
	s := newState(IntentDayEndTime, Target{Date: "2026-03-10"})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt("2026-03-10", models.HolidayTypeHoliday, true, nil, "")})

	resp := Dispatch(s)
	assert.Equal(t, ViewHolidayFullDay, resp.View)
	assert.Empty(t, resp.Data)
	require.NotNil(t, resp.Extra)
	assert.Nil(t, resp.Extra.EndTime)
	assert.Equal(t, "วันอังคาร (10 มี.ค.) เป็นวันหยุดค่ะ 😊", resp.Message)
}

func TestDispatchDayPartialCancel(t *testing.T) {
	s := newState(IntentDay, Target{Date: testToday})
	s.Overlay = OverlayFound([]models.Holiday{
		holidayAt(testToday, models.HolidayTypeCancel, false, strPtr("csi101"), "sick"),
		holidayAt(testToday, models.HolidayTypeCancel, false, nil, "unbound"),
	})

	resp := Dispatch(s)
	assert.Equal(t, ViewDaySpecific, resp.View)
	require.Len(t, resp.Data, 3)
	assert.True(t, *resp.Data[0].Canceled)
	assert.False(t, *resp.Data[1].Canceled)
	assert.Equal(t, testToday, resp.Data[1].Date)
	require.NotNil(t, resp.Holiday)
	assert.Equal(t, 2, resp.Holiday.Count)
}

func TestDispatchDayCancelByNumericID(t *testing.T) {
	s := newState(IntentDay, Target{Date: "2026-03-06"})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt("2026-03-06", models.HolidayTypeCancel, false, strPtr("4"), "")})

	resp := Dispatch(s)
	assert.Equal(t, ViewHolidayFullDay, resp.View)
	assert.Equal(t, CancelAllTitle, resp.Holiday.Title)
	assert.Equal(t, "มะรืนเป็นวันหยุดค่ะ 😊 (ยกคลาสทั้งวัน)", resp.Message)
}

func TestDispatchDayAllCanceledCollapsesWithoutHolidayRecord(t *testing.T) {
	friday := "2026-03-06"
	s := newState(IntentDay, Target{Weekday: calendar.Friday, Date: friday})
	s.Rows = []models.Subject{
		row(10, calendar.Friday, "CSI103", "lecture", "09:00", "12:00"),
		row(11, calendar.Friday, "CSI103", "cancel-target", "13:00", "15:00"),
	}
	s.Overlay = OverlayFound([]models.Holiday{holidayAt(friday, models.HolidayTypeCancel, false, strPtr("CSI103"), "")})

	resp := Dispatch(s)
	assert.Equal(t, ModeStatus, resp.Mode)
	assert.Equal(t, ViewHolidayFullDay, resp.View)
	assert.Empty(t, resp.Data)
	assert.Equal(t, "cancel", resp.Holiday.Type)
	assert.Equal(t, CancelAllTitle, resp.Holiday.Title)
}

func TestDispatchDayOverlayUnavailableDegrades(t *testing.T) {
	s := newState(IntentDay, Target{Date: testToday})
	s.Overlay = OverlayFailed()

	resp := Dispatch(s)
	assert.True(t, resp.OK)
	assert.Equal(t, ViewDaySpecific, resp.View)
	assert.Equal(t, "holiday overlay unavailable", resp.Warn)
	require.Len(t, resp.Data, 3)
	assert.False(t, *resp.Data[0].Canceled)
}

func TestDispatchDayEmptyDayIsNotHoliday(t *testing.T) {
	s := newState(IntentDay, Target{Date: "2026-03-07"})
	s.Overlay = OverlayFound(nil)

	resp := Dispatch(s)
	assert.Equal(t, ViewDaySpecific, resp.View)
	assert.Empty(t, resp.Data)
	assert.Equal(t, msgNoClass, resp.Message)
}

func TestDispatchEndTimeOmitsRows(t *testing.T) {
	s := newState(IntentDayEndTime, Target{Date: testToday})
	s.Overlay = OverlayFound([]models.Holiday{holidayAt(testToday, models.HolidayTypeCancel, false, strPtr("CSI102"), "")})

	resp := Dispatch(s)
	assert.Equal(t, ViewEndTime, resp.View)
	assert.Empty(t, resp.Data)
	require.NotNil(t, resp.Extra.EndTime)
	assert.Equal(t, "16:00", *resp.Extra.EndTime)
	assert.Equal(t, "เลิกประมาณ 16:00 นะคะ ✨", resp.Message)
}

func TestDispatchEndTimeOverlayUnavailable(t *testing.T) {
	s := newState(IntentDayEndTime, Target{Date: testToday})
	s.Overlay = OverlayFailed()

	resp := Dispatch(s)
	assert.True(t, resp.OK)
	assert.Equal(t, ViewEndTime, resp.View)
	assert.Equal(t, "holiday overlay unavailable", resp.Warn)
	assert.Empty(t, resp.Data)
	require.NotNil(t, resp.Extra)
	require.NotNil(t, resp.Extra.EndTime)
	// online rows sort last, so CSI102 closes the day
	assert.Equal(t, "09:00", *resp.Extra.EndTime)
	assert.Equal(t, "เลิกประมาณ 09:00 นะคะ ✨", resp.Message)
}

func TestDispatchEndTimeNoClass(t *testing.T) {
	s := newState(IntentDayEndTime, Target{Weekday: calendar.Saturday})
	s.Overlay = OverlayFound(nil)

	resp := Dispatch(s)
	assert.Equal(t, ViewEndTime, resp.View)
	assert.Nil(t, resp.Extra.EndTime)
	assert.Equal(t, msgNoClass, resp.Message)
}

func TestDispatchFirstAndLast(t *testing.T) {
	first := Dispatch(newState(IntentFirst, Target{}))
	require.Len(t, first.Data, 1)
	assert.Equal(t, ModeSingle, first.Mode)
	assert.Equal(t, "CSI101", first.Data[0].SubjectCode)
	assert.Equal(t, "คาบแรก • วันพุธ (04 มี.ค.)", first.Meta.Title)

	last := Dispatch(newState(IntentLast, Target{}))
	require.Len(t, last.Data, 1)
	assert.Equal(t, "CSI102", last.Data[0].SubjectCode)

	empty := Dispatch(newState(IntentFirst, Target{Weekday: calendar.Sunday}))
	assert.Equal(t, ModeStatus, empty.Mode)
	assert.Empty(t, empty.Data)
	assert.Equal(t, msgNoClass, empty.Message)
}

func TestDispatchCurrentInsideWindow(t *testing.T) {
	resp := Dispatch(newState(IntentCurrent, Target{}))
	assert.Equal(t, ModeSingle, resp.Mode)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "CSI101", resp.Data[0].SubjectCode)
	assert.Equal(t, "10:30", resp.Data[0].Now)
}

func TestDispatchCurrentAtEndIsExclusive(t *testing.T) {
	s := newState(IntentCurrent, Target{})
	s.Now = "12:00"

	resp := Dispatch(s)
	assert.Equal(t, ModeStatus, resp.Mode)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "CSI103", resp.Data[0].SubjectCode)
	assert.Equal(t, "ตอนนี้ไม่มีคาบเรียนค่ะ 😊 คาบถัดไปเริ่ม 13:00 นะคะ", resp.Message)
}

func TestDispatchCurrentDone(t *testing.T) {
	s := newState(IntentCurrent, Target{})
	s.Now = "17:00"

	resp := Dispatch(s)
	assert.Equal(t, ModeStatus, resp.Mode)
	assert.Empty(t, resp.Data)
	assert.Equal(t, msgNoMoreToday, resp.Message)
}

func TestDispatchNextPicksEarliestLaterToday(t *testing.T) {
	s := newState(IntentNext, Target{})
	s.Now = "07:00"

	resp := Dispatch(s)
	assert.Equal(t, ModeSingle, resp.Mode)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "CSI102", resp.Data[0].SubjectCode)
}

func TestDispatchNextScansForward(t *testing.T) {
	s := newState(IntentNext, Target{})
	s.Now = "16:30"

	resp := Dispatch(s)
	assert.Equal(t, ModeSingle, resp.Mode)
	assert.Equal(t, "2026-03-06", *resp.Date)
	assert.Equal(t, "CSI104", resp.Data[0].SubjectCode)
	assert.Equal(t, "คาบต่อไปคือ วันศุกร์ (06 มี.ค.) นะคะ ✨", resp.Message)
}

func TestDispatchNextNothingWithinWindow(t *testing.T) {
	s := newState(IntentNext, Target{})
	s.Rows = nil

	resp := Dispatch(s)
	assert.Equal(t, ModeStatus, resp.Mode)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
	assert.Equal(t, msgNextNotFound, resp.Message)
}

func TestDispatchUnsupportedIntent(t *testing.T) {
	s := newState(IntentUnsupported, Target{Weekday: calendar.Friday})
	s.RawIntent = "schedule_month"

	resp := Dispatch(s)
	assert.False(t, resp.OK)
	assert.Equal(t, "unsupported intent", resp.Error)
	assert.Equal(t, "schedule_month", resp.Intent)
	assert.Equal(t, "2026-03-06", *resp.Date)
	assert.Equal(t, calendar.Friday, *resp.Meta.TargetWeekday)
}
