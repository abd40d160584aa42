package models

import "strings"

// SubjectTypeOnline marks rows that are always listed after on-site classes.
const SubjectTypeOnline = "online"

// Subject is one recurring class slot in a user's timetable. A single row
// stands for every occurrence of its weekday within the semester.
type Subject struct {
	ID          int64  `db:"id" json:"id"`
	UserID      string `db:"user_id" json:"user_id"`
	Semester    string `db:"semester" json:"semester"`
	Day         string `db:"day" json:"day"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Section     string `db:"section" json:"section"`
	Type        string `db:"type" json:"type"`
	Room        string `db:"room" json:"room"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	Instructor  string `db:"instructor" json:"instructor"`
}

// IsOnline reports whether the row is an online class.
func (s Subject) IsOnline() bool {
	return strings.EqualFold(strings.TrimSpace(s.Type), SubjectTypeOnline)
}
