package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/internal/schedule"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type termResolver interface {
	Resolve(ctx context.Context, date string) (*models.Term, error)
}

type subjectLister interface {
	ListByUserAndSemester(ctx context.Context, userID, semester string) ([]models.Subject, error)
}

type holidayLister interface {
	ListOverlapping(ctx context.Context, userID, from, to string) ([]models.Holiday, error)
}

// ScheduleSettings carries the civil timezone and store deadline of the engine.
type ScheduleSettings struct {
	Location     *time.Location
	StoreTimeout time.Duration
}

// ScheduleService answers intent queries against a user's timetable.
type ScheduleService struct {
	terms    termResolver
	subjects subjectLister
	holidays holidayLister
	clock    calendar.Clock
	settings ScheduleSettings
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewScheduleService wires the engine to its stores.
func NewScheduleService(terms termResolver, subjects subjectLister, holidays holidayLister, clock calendar.Clock, settings ScheduleSettings, metrics *MetricsService, logger *zap.Logger) *ScheduleService {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if settings.Location == nil {
		settings.Location = calendar.FixedZone
	}
	if settings.StoreTimeout <= 0 {
		settings.StoreTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		terms:    terms,
		subjects: subjects,
		holidays: holidays,
		clock:    clock,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
}

// Today returns the civil date in the schedule timezone.
func (s *ScheduleService) Today() string {
	return calendar.Today(s.clock.Now(), s.settings.Location)
}

// Query resolves one intent. Unsupported intents come back as an ok=false
// payload rather than an error.
func (s *ScheduleService) Query(ctx context.Context, q dto.ScheduleQuery) (*dto.ScheduleResponse, error) {
	userID := strings.TrimSpace(q.UserID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "missing user_id")
	}

	target := schedule.Target{Date: q.Date, Weekday: q.Weekday, Modifier: q.Modifier}.Normalize()
	if target.Date != "" && !calendar.IsDate(target.Date) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	target.Weekday = calendar.CanonicalWeekday(target.Weekday)

	now := s.clock.Now()
	today := calendar.Today(now, s.settings.Location)
	clock := calendar.ClockOf(now, s.settings.Location)
	intent := schedule.ParseIntent(q.Intent)

	term, err := s.resolveTerm(ctx, today)
	if err != nil {
		return nil, err
	}
	semester := term.Semester()

	rows, err := s.listRows(ctx, userID, semester)
	if err != nil {
		return nil, err
	}

	overlay := schedule.OverlayResult{Status: schedule.OverlaySkipped}
	if date, ok := schedule.OverlayDate(intent, target, today); ok {
		overlay = s.readOverlay(ctx, userID, date)
	}

	resp := schedule.Dispatch(schedule.State{
		Intent:    intent,
		RawIntent: strings.TrimSpace(q.Intent),
		Target:    target,
		Today:     today,
		Now:       clock,
		Semester:  semester,
		Rows:      rows,
		Overlay:   overlay,
	})
	s.metrics.RecordScheduleQuery(string(intent), resp.View)
	return &resp, nil
}

func (s *ScheduleService) resolveTerm(ctx context.Context, today string) (*models.Term, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.StoreTimeout)
	defer cancel()
	return s.terms.Resolve(ctx, today)
}

func (s *ScheduleService) listRows(ctx context.Context, userID, semester string) ([]models.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.StoreTimeout)
	defer cancel()

	start := time.Now()
	rows, err := s.subjects.ListByUserAndSemester(ctx, userID, semester)
	s.metrics.ObserveDBQuery("list_subjects", time.Since(start))
	if err != nil {
		s.logger.Error("list subjects failed", zap.String("user_id", userID), zap.String("semester", semester), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB query failed")
	}
	return rows, nil
}

// readOverlay never fails: store errors degrade to OverlayUnavailable.
func (s *ScheduleService) readOverlay(ctx context.Context, userID, date string) schedule.OverlayResult {
	ctx, cancel := context.WithTimeout(ctx, s.settings.StoreTimeout)
	defer cancel()

	from, to := calendar.DayBounds(date, s.settings.Location)
	start := time.Now()
	records, err := s.holidays.ListOverlapping(ctx, userID, from, to)
	s.metrics.ObserveDBQuery("list_holidays", time.Since(start))
	if err != nil {
		s.logger.Warn("holiday overlay unavailable", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		s.metrics.RecordOverlayRead("unavailable")
		return schedule.OverlayFailed()
	}
	s.metrics.RecordOverlayRead("ok")
	return schedule.OverlayFound(records)
}
