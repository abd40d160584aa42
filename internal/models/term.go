package models

import "fmt"

// Term models an academic term with an inclusive civil date range.
type Term struct {
	ID           int64  `db:"id" json:"id"`
	AcademicYear string `db:"academic_year" json:"academic_year"`
	Term         int    `db:"term" json:"term"`
	StartDate    string `db:"start_date" json:"start_date"`
	EndDate      string `db:"end_date" json:"end_date"`
}

// Semester returns the "{term}/{academic_year}" identifier class rows are keyed by.
func (t Term) Semester() string {
	return fmt.Sprintf("%d/%s", t.Term, t.AcademicYear)
}

// Contains reports whether date falls inside the term.
func (t Term) Contains(date string) bool {
	return t.StartDate <= date && date <= t.EndDate
}

// TermFilter defines filters supported by list endpoints.
type TermFilter struct {
	AcademicYear string
	Page         int
	PageSize     int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
