package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/schedule-liff-api/internal/models"
)

const termColumns = "id, academic_year, term, CAST(start_date AS TEXT) AS start_date, CAST(end_date AS TEXT) AS end_date"

// TermRepository handles persistence for academic terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// FindActiveOn returns the term whose inclusive range covers date, or nil when none does.
func (r *TermRepository) FindActiveOn(ctx context.Context, date string) (*models.Term, error) {
	query := r.db.Rebind("SELECT " + termColumns + " FROM academic_terms WHERE start_date <= ? AND end_date >= ? ORDER BY start_date DESC LIMIT 1")
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, date, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active term: %w", err)
	}
	return &term, nil
}

// List returns terms, newest first, with the total count.
func (r *TermRepository) List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	base := "FROM academic_terms"
	var args []interface{}
	if filter.AcademicYear != "" {
		base += " WHERE academic_year = ?"
		args = append(args, filter.AcademicYear)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := r.db.Rebind(fmt.Sprintf("SELECT %s %s ORDER BY start_date DESC LIMIT %d OFFSET %d", termColumns, base, size, offset))
	terms := make([]models.Term, 0)
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list terms: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) "+base), args...); err != nil {
		return nil, 0, fmt.Errorf("count terms: %w", err)
	}

	return terms, total, nil
}

// Overlaps reports whether another term shares any day with [start, end].
func (r *TermRepository) Overlaps(ctx context.Context, start, end string) (bool, error) {
	query := r.db.Rebind("SELECT COUNT(*) FROM academic_terms WHERE start_date <= ? AND end_date >= ?")
	var count int
	if err := r.db.GetContext(ctx, &count, query, end, start); err != nil {
		return false, fmt.Errorf("check term overlap: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new term and sets its identifier.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query := r.db.Rebind("INSERT INTO academic_terms (academic_year, term, start_date, end_date) VALUES (?, ?, ?, ?) RETURNING id")
	if err := r.db.QueryRowxContext(ctx, query, term.AcademicYear, term.Term, term.StartDate, term.EndDate).Scan(&term.ID); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}
