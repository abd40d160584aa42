package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type subjectRepository interface {
	ListByUserAndSemester(ctx context.Context, userID, semester string) ([]models.Subject, error)
	FindByID(ctx context.Context, id int64, userID string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) (int64, error)
	Delete(ctx context.Context, id int64, userID string) (int64, error)
}

// SubjectInput is the class row payload posted by the LIFF form.
type SubjectInput struct {
	UserID      string      `json:"user_id"`
	ID          interface{} `json:"id,omitempty"`
	Day         string      `json:"day" validate:"thai_weekday"`
	SubjectCode string      `json:"subject_code"`
	SubjectName string      `json:"subject_name"`
	Section     string      `json:"section"`
	Type        string      `json:"type"`
	Room        string      `json:"room"`
	StartTime   string      `json:"start_time" validate:"hhmm"`
	EndTime     string      `json:"end_time" validate:"hhmm"`
	Instructor  string      `json:"instructor"`
}

var subjectRequiredFields = []string{"user_id", "day", "subject_code", "subject_name", "section", "type", "room", "start_time", "end_time"}

func (in SubjectInput) value(field string) string {
	switch field {
	case "user_id":
		return in.UserID
	case "day":
		return in.Day
	case "subject_code":
		return in.SubjectCode
	case "subject_name":
		return in.SubjectName
	case "section":
		return in.Section
	case "type":
		return in.Type
	case "room":
		return in.Room
	case "start_time":
		return in.StartTime
	case "end_time":
		return in.EndTime
	}
	return ""
}

// SubjectCreated describes a successful insert.
type SubjectCreated struct {
	Subject  *models.Subject
	Semester string
	Today    string
}

// SubjectList is a user's rows for the term active today.
type SubjectList struct {
	Subjects []models.Subject
	Semester string
	Today    string
}

// SubjectService manages a user's recurring class rows.
type SubjectService struct {
	repo      subjectRepository
	terms     termResolver
	clock     calendar.Clock
	loc       *time.Location
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a subject service. Rows are filed under the term
// resolved for the current date in loc.
func NewSubjectService(repo subjectRepository, terms termResolver, clock calendar.Clock, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *SubjectService {
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
	svc := &SubjectService{repo: repo, terms: terms, clock: clock, loc: loc, validator: validate, logger: logger}
	registerScheduleValidations(svc.validator)
	return svc
}

func registerScheduleValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("thai_weekday", func(fl validator.FieldLevel) bool {
		return calendar.IsWeekday(calendar.CanonicalWeekday(fl.Field().String()))
	})
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		clock, ok := calendar.NormalizeClock(fl.Field().String())
		return ok && clock == fl.Field().String()
	})
	v.RegisterValidation("overlay_type", func(fl validator.FieldLevel) bool {
		switch models.HolidayType(fl.Field().String()) {
		case models.HolidayTypeHoliday, models.HolidayTypeCancel:
			return true
		}
		return false
	})
}

// Today returns the current civil date.
func (s *SubjectService) Today() string {
	return calendar.Today(s.clock.Now(), s.loc)
}

// Create files a new row under the active term.
func (s *SubjectService) Create(ctx context.Context, in SubjectInput) (*SubjectCreated, error) {
	in = trimSubjectInput(in)
	if err := missingFields(in, subjectRequiredFields); err != nil {
		return nil, err
	}
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	term, err := s.terms.Resolve(ctx, today)
	if err != nil {
		return nil, err
	}

	subject := subjectFromInput(in)
	subject.UserID = in.UserID
	subject.Semester = term.Semester()
	if err := s.repo.Create(ctx, subject); err != nil {
		s.logger.Error("insert subject failed", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB insert failed")
	}

	s.logger.Info("subject created", zap.String("user_id", subject.UserID), zap.Int64("id", subject.ID), zap.String("semester", subject.Semester))
	return &SubjectCreated{Subject: subject, Semester: subject.Semester, Today: today}, nil
}

// List returns the user's rows for today's term in weekday order.
func (s *SubjectService) List(ctx context.Context, userID string) (*SubjectList, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "missing user_id")
	}

	today := s.Today()
	term, err := s.terms.Resolve(ctx, today)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUserAndSemester(ctx, userID, term.Semester())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB query failed")
	}
	return &SubjectList{Subjects: rows, Semester: term.Semester(), Today: today}, nil
}

// Get loads one of the user's rows.
func (s *SubjectService) Get(ctx context.Context, userID string, rawID interface{}) (*models.Subject, error) {
	userID, id, err := ownedID(userID, rawID)
	if err != nil {
		return nil, err
	}

	subject, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB query failed")
	}
	return subject, nil
}

// Update rewrites one of the user's rows and returns the number of rows changed.
func (s *SubjectService) Update(ctx context.Context, in SubjectInput) (int64, error) {
	in = trimSubjectInput(in)
	userID, id, err := ownedID(in.UserID, in.ID)
	if err != nil {
		return 0, err
	}
	if err := missingFields(in, subjectRequiredFields[1:]); err != nil {
		return 0, err
	}
	in, err = s.normalize(in)
	if err != nil {
		return 0, err
	}

	subject := subjectFromInput(in)
	subject.ID = id
	subject.UserID = userID
	changes, err := s.repo.Update(ctx, subject)
	if err != nil {
		s.logger.Error("update subject failed", zap.String("user_id", userID), zap.Int64("id", id), zap.Error(err))
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB update failed")
	}
	return changes, nil
}

// Delete removes one of the user's rows and returns the number of rows removed.
func (s *SubjectService) Delete(ctx context.Context, userID string, rawID interface{}) (int64, error) {
	userID, id, err := ownedID(userID, rawID)
	if err != nil {
		return 0, err
	}

	changes, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("delete subject failed", zap.String("user_id", userID), zap.Int64("id", id), zap.Error(err))
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB delete failed")
	}
	return changes, nil
}

func (s *SubjectService) normalize(in SubjectInput) (SubjectInput, error) {
	in.Day = calendar.CanonicalWeekday(in.Day)
	in.SubjectCode = strings.ToUpper(in.SubjectCode)
	in.Section = NormalizeSection(in.Section)
	if clock, ok := calendar.NormalizeClock(in.StartTime); ok {
		in.StartTime = clock
	}
	if clock, ok := calendar.NormalizeClock(in.EndTime); ok {
		in.EndTime = clock
	}

	if err := s.validator.Struct(in); err != nil {
		return in, validationError(err)
	}
	start, _ := calendar.Minutes(in.StartTime)
	end, _ := calendar.Minutes(in.EndTime)
	if end <= start {
		return in, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return in, nil
}

func subjectFromInput(in SubjectInput) *models.Subject {
	return &models.Subject{
		Day:         in.Day,
		SubjectCode: in.SubjectCode,
		SubjectName: in.SubjectName,
		Section:     in.Section,
		Type:        in.Type,
		Room:        in.Room,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Instructor:  in.Instructor,
	}
}

func trimSubjectInput(in SubjectInput) SubjectInput {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Day = strings.TrimSpace(in.Day)
	in.SubjectCode = strings.TrimSpace(in.SubjectCode)
	in.SubjectName = strings.TrimSpace(in.SubjectName)
	in.Section = strings.TrimSpace(in.Section)
	in.Type = strings.TrimSpace(in.Type)
	in.Room = strings.TrimSpace(in.Room)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	in.Instructor = strings.TrimSpace(in.Instructor)
	return in
}

func missingFields(in SubjectInput, fields []string) error {
	var missing []string
	for _, f := range fields {
		if in.value(f) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return appErrors.Clone(appErrors.ErrMissingField, "missing: "+strings.Join(missing, ", "))
}

// NormalizeSection keeps the digits of a section and left pads them to three.
func NormalizeSection(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	for len(digits) < 3 {
		digits = "0" + digits
	}
	return digits
}

// ParseID accepts a numeric identifier sent either as a JSON number or a string.
func ParseID(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		if v >= 1<<63 || v < -(1<<63) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		s := strings.TrimFunc(v, unicode.IsSpace)
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

func ownedID(userID string, rawID interface{}) (string, int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", 0, appErrors.Clone(appErrors.ErrMissingField, "missing user_id")
	}
	id, ok := ParseID(rawID)
	if !ok {
		return "", 0, appErrors.Clone(appErrors.ErrValidation, "missing/invalid id")
	}
	return userID, id, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+fieldErrs[0].Field())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
}
