package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/schedule-liff-api/internal/models"
)

const holidayColumns = "id, user_id, type, subject_id, all_day, start_at, end_at, title, note"

// HolidayRepository persists overlay records: full-day holidays and class cancellations.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs a holiday repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// ListOverlapping returns the user's records whose range touches [from, to].
// Bounds are RFC3339 timestamps in the schedule timezone.
func (r *HolidayRepository) ListOverlapping(ctx context.Context, userID, from, to string) ([]models.Holiday, error) {
	query := r.db.Rebind("SELECT " + holidayColumns + " FROM holidays WHERE user_id = ? AND start_at <= ? AND end_at >= ? ORDER BY start_at ASC, id ASC")
	holidays := make([]models.Holiday, 0)
	if err := r.db.SelectContext(ctx, &holidays, query, userID, to, from); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// Create inserts an overlay record and sets its identifier.
func (r *HolidayRepository) Create(ctx context.Context, h *models.Holiday) error {
	query := r.db.Rebind(`INSERT INTO holidays (user_id, type, subject_id, all_day, start_at, end_at, title, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	row := r.db.QueryRowxContext(ctx, query,
		h.UserID, string(h.Type), h.SubjectID, h.AllDay,
		h.StartAt.Format(time.RFC3339), h.EndAt.Format(time.RFC3339),
		h.Title, h.Note,
	)
	if err := row.Scan(&h.ID); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// Delete removes a record owned by userID and returns the number of rows removed.
func (r *HolidayRepository) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM holidays WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete holiday: %w", err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete holiday rows affected: %w", err)
	}
	return changed, nil
}
