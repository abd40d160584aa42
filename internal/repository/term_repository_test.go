package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/models"
)

var termCols = []string{"id", "academic_year", "term", "start_date", "end_date"}

func TestTermRepositoryFindActiveOn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_terms WHERE start_date <= ? AND end_date >= ? ORDER BY start_date DESC LIMIT 1")).
		WithArgs("2026-03-04", "2026-03-04").
		WillReturnRows(sqlmock.NewRows(termCols).AddRow(1, "2567", 2, "2026-01-05", "2026-05-10"))

	term, err := repo.FindActiveOn(context.Background(), "2026-03-04")
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "2/2567", term.Semester())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryFindActiveOnMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery("FROM academic_terms").WillReturnRows(sqlmock.NewRows(termCols))

	term, err := repo.FindActiveOn(context.Background(), "2030-01-01")
	require.NoError(t, err)
	assert.Nil(t, term)
}

func TestTermRepositoryFindActiveOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery("FROM academic_terms").WillReturnError(errors.New("boom"))

	_, err := repo.FindActiveOn(context.Background(), "2026-03-04")
	assert.ErrorContains(t, err, "find active term")
}

func TestTermRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_terms WHERE academic_year = ? ORDER BY start_date DESC LIMIT 20 OFFSET 0")).
		WithArgs("2567").
		WillReturnRows(sqlmock.NewRows(termCols).AddRow(1, "2567", 1, "2025-06-01", "2025-10-01"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM academic_terms WHERE academic_year = ?")).
		WithArgs("2567").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	terms, total, err := repo.List(context.Background(), models.TermFilter{AcademicYear: "2567"})
	require.NoError(t, err)
	assert.Len(t, terms, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryCreateAndOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM academic_terms WHERE start_date <= ? AND end_date >= ?")).
		WithArgs("2026-10-01", "2026-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO academic_terms").
		WithArgs("2568", 1, "2026-06-01", "2026-10-01").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	overlap, err := repo.Overlaps(context.Background(), "2026-06-01", "2026-10-01")
	require.NoError(t, err)
	assert.False(t, overlap)

	term := &models.Term{AcademicYear: "2568", Term: 1, StartDate: "2026-06-01", EndDate: "2026-10-01"}
	require.NoError(t, repo.Create(context.Background(), term))
	assert.Equal(t, int64(7), term.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
