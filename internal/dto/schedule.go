package dto

import "github.com/noah-isme/schedule-liff-api/internal/models"

// ScheduleQuery is the body accepted by POST /schedule/query.
type ScheduleQuery struct {
	UserID   string `json:"user_id"`
	Intent   string `json:"intent"`
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Modifier string `json:"modifier"`
}

// ScheduleMeta carries display strings for the LINE flex renderer.
type ScheduleMeta struct {
	Title         string  `json:"title"`
	AltText       string  `json:"altText"`
	Subtitle      string  `json:"subtitle"`
	TargetWeekday *string `json:"target_weekday"`
}

// WeekWindow describes the Monday-anchored week of a schedule_week answer.
type WeekWindow struct {
	Start string   `json:"start"`
	Dates []string `json:"dates"`
	Days  []string `json:"days"`
}

// HolidayInfo summarises the overlay that shaped a day view.
type HolidayInfo struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Note  string `json:"note,omitempty"`
	Count int    `json:"count,omitempty"`
}

// ScheduleExtra holds intent specific values.
type ScheduleExtra struct {
	EndTime *string `json:"end_time"`
}

// ScheduleItem is a class row annotated for a concrete date.
type ScheduleItem struct {
	models.Subject
	Date     string `json:"_date,omitempty"`
	Canceled *bool  `json:"_canceled,omitempty"`
	Now      string `json:"_now,omitempty"`
}

// ScheduleResponse is the flat payload returned by the query endpoint.
type ScheduleResponse struct {
	OK       bool           `json:"ok"`
	Type     string         `json:"type"`
	Intent   string         `json:"intent,omitempty"`
	Error    string         `json:"error,omitempty"`
	Mode     string         `json:"mode"`
	View     string         `json:"view"`
	Date     *string        `json:"date"`
	Today    string         `json:"today"`
	Semester string         `json:"semester"`
	Meta     ScheduleMeta   `json:"meta"`
	Week     *WeekWindow    `json:"week,omitempty"`
	Holiday  *HolidayInfo   `json:"holiday,omitempty"`
	Data     []ScheduleItem `json:"data"`
	Message  string         `json:"message,omitempty"`
	Extra    *ScheduleExtra `json:"extra,omitempty"`
	Warn     string         `json:"warn,omitempty"`
}

// TermResolveResponse is returned by GET /term/resolve.
type TermResolveResponse struct {
	OK           bool   `json:"ok"`
	Today        string `json:"today"`
	AcademicYear string `json:"academic_year"`
	Term         int    `json:"term"`
	Semester     string `json:"semester"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}
