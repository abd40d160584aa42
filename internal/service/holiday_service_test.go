package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type holidayRepoStub struct {
	records  []models.Holiday
	created  *models.Holiday
	changes  int64
	err      error
	from, to string
}

func (s *holidayRepoStub) ListOverlapping(_ context.Context, _ string, from, to string) ([]models.Holiday, error) {
	s.from, s.to = from, to
	return s.records, s.err
}

func (s *holidayRepoStub) Create(_ context.Context, h *models.Holiday) error {
	if s.err != nil {
		return s.err
	}
	h.ID = 5
	s.created = h
	return nil
}

func (s *holidayRepoStub) Delete(_ context.Context, _ int64, _ string) (int64, error) {
	return s.changes, s.err
}

func newHolidayService(repo *holidayRepoStub) *HolidayService {
	return NewHolidayService(repo, calendar.FixedClock(fixedNow), calendar.FixedZone, nil, nil)
}

func TestHolidayServiceCreateWholeDay(t *testing.T) {
	repo := &holidayRepoStub{}
	svc := newHolidayService(repo)

	h, err := svc.Create(context.Background(), HolidayInput{UserID: "U1", Type: "Holiday", StartAt: "2026-03-06", Title: " Sports day "})
	require.NoError(t, err)
	assert.Equal(t, int64(5), h.ID)
	assert.True(t, h.AllDay)
	assert.True(t, h.IsFullDay())
	assert.Equal(t, "Sports day", h.Title)
	assert.Equal(t, "2026-03-06T00:00:00+07:00", h.StartAt.Format(time.RFC3339))
	assert.Equal(t, "2026-03-06T23:59:59+07:00", h.EndAt.Format(time.RFC3339))
	assert.Nil(t, h.SubjectID)
}

func TestHolidayServiceCreateCancelWithTimestamp(t *testing.T) {
	repo := &holidayRepoStub{}
	svc := newHolidayService(repo)

	h, err := svc.Create(context.Background(), HolidayInput{
		UserID:    "U1",
		Type:      "cancel",
		SubjectID: float64(12),
		StartAt:   "2026-03-06T02:00:00Z",
		EndAt:     "2026-03-06T05:00:00Z",
	})
	require.NoError(t, err)
	assert.False(t, h.AllDay)
	require.NotNil(t, h.SubjectID)
	assert.Equal(t, "12", *h.SubjectID)
	assert.Equal(t, "2026-03-06T09:00:00+07:00", h.StartAt.Format(time.RFC3339))
}

func TestHolidayServiceCreateValidation(t *testing.T) {
	svc := newHolidayService(&holidayRepoStub{})

	_, err := svc.Create(context.Background(), HolidayInput{UserID: "U1", Type: "cancel"})
	assert.Equal(t, "missing: start_at, subject_id", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), HolidayInput{UserID: "U1", Type: "vacation", StartAt: "2026-03-06"})
	assert.Equal(t, "invalid type", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), HolidayInput{UserID: "U1", Type: "holiday", StartAt: "06/03/2026"})
	assert.Equal(t, "invalid start_at", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), HolidayInput{UserID: "U1", Type: "holiday", StartAt: "2026-03-06", EndAt: "2026-03-05"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHolidayServiceCreateStoreFailure(t *testing.T) {
	svc := newHolidayService(&holidayRepoStub{err: errors.New("readonly")})

	_, err := svc.Create(context.Background(), HolidayInput{UserID: "U1", Type: "holiday", StartAt: "2026-03-06"})
	assert.Equal(t, "DB insert failed", appErrors.FromError(err).Message)
}

func TestHolidayServiceListWindow(t *testing.T) {
	repo := &holidayRepoStub{records: []models.Holiday{{ID: 1}}}
	svc := newHolidayService(repo)

	records, err := svc.List(context.Background(), models.HolidayFilter{UserID: "U1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "2026-03-04T00:00:00+07:00", repo.from)
	assert.Equal(t, "2026-03-04T23:59:59+07:00", repo.to)

	_, err = svc.List(context.Background(), models.HolidayFilter{UserID: "U1", From: "2026-03-01", To: "2026-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-31T23:59:59+07:00", repo.to)

	_, err = svc.List(context.Background(), models.HolidayFilter{UserID: "U1", From: "2026-03-10", To: "2026-03-01"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.List(context.Background(), models.HolidayFilter{})
	assert.Equal(t, "missing user_id", appErrors.FromError(err).Message)
}

func TestHolidayServiceDelete(t *testing.T) {
	svc := newHolidayService(&holidayRepoStub{changes: 1})

	changes, err := svc.Delete(context.Background(), "U1", "3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	_, err = svc.Delete(context.Background(), "U1", "x")
	assert.Equal(t, "missing/invalid id", appErrors.FromError(err).Message)
}
