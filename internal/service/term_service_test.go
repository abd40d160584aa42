package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type termRepoStub struct {
	term      *models.Term
	findErr   error
	findCalls int
	overlap   bool
	created   *models.Term
	list      []models.Term
}

func (s *termRepoStub) FindActiveOn(_ context.Context, date string) (*models.Term, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.term == nil || !s.term.Contains(date) {
		return nil, nil
	}
	found := *s.term
	return &found, nil
}

func (s *termRepoStub) List(context.Context, models.TermFilter) ([]models.Term, int, error) {
	return s.list, len(s.list), nil
}

func (s *termRepoStub) Overlaps(context.Context, string, string) (bool, error) {
	return s.overlap, nil
}

func (s *termRepoStub) Create(_ context.Context, term *models.Term) error {
	term.ID = 42
	s.created = term
	return nil
}

func activeTerm() *models.Term {
	return &models.Term{ID: 1, AcademicYear: "2567", Term: 2, StartDate: "2026-01-05", EndDate: "2026-05-10"}
}

func TestTermServiceResolveUsesCache(t *testing.T) {
	repo := &termRepoStub{term: activeTerm()}
	cache := NewCacheService(newMemoryCache(), nil, time.Hour, nil, true)
	svc := NewTermService(repo, cache, NewMetricsService(), time.Hour, nil, nil)

	first, err := svc.Resolve(context.Background(), "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2/2567", first.Semester())

	second, err := svc.Resolve(context.Background(), "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.findCalls)
}

func TestTermServiceResolveWithoutCache(t *testing.T) {
	repo := &termRepoStub{term: activeTerm()}
	svc := NewTermService(repo, nil, nil, time.Hour, nil, nil)

	_, err := svc.Resolve(context.Background(), "2026-03-04")
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findCalls)
}

func TestTermServiceResolveNotFound(t *testing.T) {
	svc := NewTermService(&termRepoStub{term: activeTerm()}, nil, nil, 0, nil, nil)

	_, err := svc.Resolve(context.Background(), "2027-01-01")
	require.Error(t, err)
	assert.True(t, IsTermNotFound(err))
	assert.Equal(t, "term not found for today", appErrors.FromError(err).Message)
}

func TestTermServiceResolveStoreFailure(t *testing.T) {
	svc := NewTermService(&termRepoStub{findErr: errors.New("d1 offline")}, nil, nil, 0, nil, nil)

	_, err := svc.Resolve(context.Background(), "2026-03-04")
	require.Error(t, err)
	assert.False(t, IsTermNotFound(err))
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestTermServiceCreate(t *testing.T) {
	repo := &termRepoStub{}
	svc := NewTermService(repo, nil, nil, 0, nil, nil)

	term, err := svc.Create(context.Background(), CreateTermRequest{AcademicYear: "2568", Term: 1, StartDate: "2026-06-01", EndDate: "2026-10-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), term.ID)
	assert.Equal(t, "1/2568", term.Semester())
}

func TestTermServiceCreateValidation(t *testing.T) {
	svc := NewTermService(&termRepoStub{}, nil, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), CreateTermRequest{AcademicYear: "2568", Term: 1, StartDate: "2026-10-01", EndDate: "2026-06-01"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateTermRequest{AcademicYear: "2568", Term: 4, StartDate: "2026-06-01", EndDate: "2026-10-01"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateTermRequest{AcademicYear: "2568", Term: 1, StartDate: "01/06/2026", EndDate: "2026-10-01"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTermServiceCreateOverlap(t *testing.T) {
	svc := NewTermService(&termRepoStub{overlap: true}, nil, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), CreateTermRequest{AcademicYear: "2568", Term: 1, StartDate: "2026-06-01", EndDate: "2026-10-01"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
