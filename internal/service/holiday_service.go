package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

// maxHolidayWindow caps listing windows.
const maxHolidayWindow = 366 * 24 * time.Hour

type holidayRepository interface {
	ListOverlapping(ctx context.Context, userID, from, to string) ([]models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, id int64, userID string) (int64, error)
}

// HolidayInput is the payload for a holiday or class cancellation. StartAt and
// EndAt take either a date (YYYY-MM-DD, whole day) or an RFC3339 timestamp.
type HolidayInput struct {
	UserID    string      `json:"user_id"`
	Type      string      `json:"type" validate:"overlay_type"`
	SubjectID interface{} `json:"subject_id"`
	AllDay    *bool       `json:"all_day"`
	StartAt   string      `json:"start_at"`
	EndAt     string      `json:"end_at"`
	Title     string      `json:"title" validate:"max=200"`
	Note      string      `json:"note" validate:"max=1000"`
}

// HolidayService manages overlay records.
type HolidayService struct {
	repo      holidayRepository
	clock     calendar.Clock
	loc       *time.Location
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService creates a holiday service.
func NewHolidayService(repo holidayRepository, clock calendar.Clock, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if loc == nil {
		loc = calendar.FixedZone
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &HolidayService{repo: repo, clock: clock, loc: loc, validator: validate, logger: logger}
	registerScheduleValidations(svc.validator)
	return svc
}

// Create stores a holiday or cancellation.
func (s *HolidayService) Create(ctx context.Context, in HolidayInput) (*models.Holiday, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.StartAt = strings.TrimSpace(in.StartAt)
	in.EndAt = strings.TrimSpace(in.EndAt)
	in.Title = strings.TrimSpace(in.Title)
	in.Note = strings.TrimSpace(in.Note)
	subjectID := subjectRef(in.SubjectID)

	var missing []string
	if in.UserID == "" {
		missing = append(missing, "user_id")
	}
	if in.Type == "" {
		missing = append(missing, "type")
	}
	if in.StartAt == "" {
		missing = append(missing, "start_at")
	}
	if models.HolidayType(in.Type) == models.HolidayTypeCancel && subjectID == nil {
		missing = append(missing, "subject_id")
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "missing: "+strings.Join(missing, ", "))
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if in.EndAt == "" {
		in.EndAt = in.StartAt
	}

	start, startDateOnly, ok := s.parseBound(in.StartAt, false)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start_at")
	}
	end, endDateOnly, ok := s.parseBound(in.EndAt, true)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end_at")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_at must not be before start_at")
	}

	allDay := startDateOnly && endDateOnly
	if in.AllDay != nil {
		allDay = *in.AllDay
	}

	holiday := &models.Holiday{
		UserID:    in.UserID,
		Type:      models.HolidayType(in.Type),
		SubjectID: subjectID,
		AllDay:    allDay,
		StartAt:   start,
		EndAt:     end,
		Title:     in.Title,
		Note:      in.Note,
	}
	if err := s.repo.Create(ctx, holiday); err != nil {
		s.logger.Error("insert holiday failed", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB insert failed")
	}

	s.logger.Info("holiday created",
		zap.String("user_id", holiday.UserID),
		zap.Int64("id", holiday.ID),
		zap.String("type", string(holiday.Type)),
		zap.Time("start_at", holiday.StartAt),
	)
	return holiday, nil
}

// List returns the user's records overlapping [From, To]. Both default to today.
func (s *HolidayService) List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	userID := strings.TrimSpace(filter.UserID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "missing user_id")
	}

	from := strings.TrimSpace(filter.From)
	if from == "" {
		from = calendar.Today(s.clock.Now(), s.loc)
	}
	to := strings.TrimSpace(filter.To)
	if to == "" {
		to = from
	}
	fromDate, errFrom := calendar.ParseDate(from)
	toDate, errTo := calendar.ParseDate(to)
	if errFrom != nil || errTo != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from/to must be YYYY-MM-DD")
	}
	if toDate.Before(fromDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	if toDate.Sub(fromDate) > maxHolidayWindow {
		return nil, appErrors.Clone(appErrors.ErrValidation, "window must not exceed one year")
	}

	lower, _ := calendar.DayBounds(from, s.loc)
	_, upper := calendar.DayBounds(to, s.loc)
	records, err := s.repo.ListOverlapping(ctx, userID, lower, upper)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB query failed")
	}
	return records, nil
}

// Delete removes one of the user's records and returns the number of rows removed.
func (s *HolidayService) Delete(ctx context.Context, userID string, rawID interface{}) (int64, error) {
	userID, id, err := ownedID(userID, rawID)
	if err != nil {
		return 0, err
	}
	changes, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("delete holiday failed", zap.String("user_id", userID), zap.Int64("id", id), zap.Error(err))
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB delete failed")
	}
	return changes, nil
}

// parseBound reads a date or RFC3339 timestamp. A bare date maps to the first
// second of the day, or the last one when upper is set.
func (s *HolidayService) parseBound(raw string, upper bool) (time.Time, bool, bool) {
	if calendar.IsDate(raw) {
		lower, last := calendar.DayBounds(raw, s.loc)
		bound := lower
		if upper {
			bound = last
		}
		t, err := time.Parse(time.RFC3339, bound)
		if err != nil {
			return time.Time{}, false, false
		}
		return t.In(s.loc), true, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, false
	}
	return t.In(s.loc), false, true
}

// subjectRef accepts a subject code or a numeric row id.
func subjectRef(raw interface{}) *string {
	var ref string
	switch v := raw.(type) {
	case string:
		ref = strings.TrimSpace(v)
	case float64:
		ref = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		ref = strconv.Itoa(v)
	case int64:
		ref = strconv.FormatInt(v, 10)
	}
	if ref == "" {
		return nil
	}
	return &ref
}
