package models

import (
	"strings"
	"time"
)

// HolidayType distinguishes whole-day holidays from single class cancellations.
type HolidayType string

const (
	HolidayTypeHoliday HolidayType = "holiday"
	HolidayTypeCancel  HolidayType = "cancel"
)

// Holiday is an overlay record that modifies the recurring timetable for a date range.
type Holiday struct {
	ID        int64       `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"user_id"`
	Type      HolidayType `db:"type" json:"type"`
	SubjectID *string     `db:"subject_id" json:"subject_id,omitempty"`
	AllDay    bool        `db:"all_day" json:"all_day"`
	StartAt   time.Time   `db:"start_at" json:"start_at"`
	EndAt     time.Time   `db:"end_at" json:"end_at"`
	Title     string      `db:"title" json:"title"`
	Note      string      `db:"note" json:"note"`
}

// Normalized folds case and surrounding whitespace out of the stored type.
func (t HolidayType) Normalized() HolidayType {
	return HolidayType(strings.ToLower(strings.TrimSpace(string(t))))
}

// IsFullDay reports whether the record wipes out the whole day.
func (h Holiday) IsFullDay() bool {
	return h.Type.Normalized() == HolidayTypeHoliday && h.AllDay
}

// IsCancel reports whether the record cancels individual classes.
func (h Holiday) IsCancel() bool {
	return h.Type.Normalized() == HolidayTypeCancel
}

// HolidayFilter narrows holiday listings to a user and date window.
type HolidayFilter struct {
	UserID string
	From   string
	To     string
}
