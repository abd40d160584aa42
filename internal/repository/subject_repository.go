package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

const subjectColumns = "id, user_id, semester, day, subject_code, subject_name, section, type, room, start_time, end_time, instructor"

// subjectOrder sorts rows Monday first; the short Thursday spelling shares slot 4.
const subjectOrder = `ORDER BY
	CASE day
		WHEN 'จันทร์' THEN 1
		WHEN 'อังคาร' THEN 2
		WHEN 'พุธ' THEN 3
		WHEN 'พฤหัสบดี' THEN 4
		WHEN 'พฤหัส' THEN 4
		WHEN 'ศุกร์' THEN 5
		WHEN 'เสาร์' THEN 6
		WHEN 'อาทิตย์' THEN 7
		ELSE 99
	END,
	start_time ASC, end_time ASC, subject_code ASC`

// SubjectRepository persists a user's recurring class rows.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListByUserAndSemester returns every row of the user's semester in weekday order.
func (r *SubjectRepository) ListByUserAndSemester(ctx context.Context, userID, semester string) ([]models.Subject, error) {
	query := r.db.Rebind("SELECT " + subjectColumns + " FROM subjects WHERE user_id = ? AND semester = ? " + subjectOrder)
	subjects := make([]models.Subject, 0)
	if err := r.db.SelectContext(ctx, &subjects, query, userID, semester); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID loads a row owned by userID.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64, userID string) (*models.Subject, error) {
	query := r.db.Rebind("SELECT " + subjectColumns + " FROM subjects WHERE id = ? AND user_id = ? LIMIT 1")
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "not found")
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return &subject, nil
}

// Create inserts a row and sets its identifier.
func (r *SubjectRepository) Create(ctx context.Context, s *models.Subject) error {
	query := r.db.Rebind(`INSERT INTO subjects (
		user_id, semester, day, subject_code, subject_name, section, type, room, start_time, end_time, instructor
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	row := r.db.QueryRowxContext(ctx, query,
		s.UserID, s.Semester, s.Day, s.SubjectCode, s.SubjectName, s.Section, s.Type, s.Room,
		s.StartTime, s.EndTime, s.Instructor,
	)
	if err := row.Scan(&s.ID); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update rewrites the editable columns of a row owned by s.UserID and returns
// the number of rows changed.
func (r *SubjectRepository) Update(ctx context.Context, s *models.Subject) (int64, error) {
	query := r.db.Rebind(`UPDATE subjects SET
		day = ?, subject_code = ?, subject_name = ?, section = ?, type = ?, room = ?,
		start_time = ?, end_time = ?, instructor = ?
	WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		s.Day, s.SubjectCode, s.SubjectName, s.Section, s.Type, s.Room,
		s.StartTime, s.EndTime, s.Instructor, s.ID, s.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("update subject: %w", err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update subject rows affected: %w", err)
	}
	return changed, nil
}

// Delete removes a row owned by userID and returns the number of rows removed.
func (r *SubjectRepository) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM subjects WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete subject: %w", err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete subject rows affected: %w", err)
	}
	return changed, nil
}
