package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

const termCachePrefix = "term:resolve:"

type termRepository interface {
	FindActiveOn(ctx context.Context, date string) (*models.Term, error)
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error)
	Overlaps(ctx context.Context, start, end string) (bool, error)
	Create(ctx context.Context, term *models.Term) error
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CreateTermRequest describes payload for creating academic terms.
type CreateTermRequest struct {
	AcademicYear string `json:"academic_year" validate:"required,numeric"`
	Term         int    `json:"term" validate:"required,min=1,max=3"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// TermService resolves the academic term in effect on a date and manages the term table.
type TermService struct {
	repo      termRepository
	cache     cacheStore
	metrics   *MetricsService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService creates a new term service instance. cache may be nil.
func NewTermService(repo termRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, validator: validate, logger: logger}
}

// Resolve returns the term covering date. A missing term yields ErrTermNotFound;
// cache failures fall through to the store.
func (s *TermService) Resolve(ctx context.Context, date string) (*models.Term, error) {
	key := termCachePrefix + date

	var cached models.Term
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		s.metrics.RecordTermLookup("cache")
		return &cached, nil
	}

	term, err := s.repo.FindActiveOn(ctx, date)
	if err != nil {
		s.logger.Error("term lookup failed", zap.String("date", date), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB query failed")
	}
	if term == nil {
		s.metrics.RecordTermLookup("missing")
		return nil, appErrors.Clone(appErrors.ErrTermNotFound, "term not found for today")
	}
	s.metrics.RecordTermLookup("store")

	_ = s.cache.Set(ctx, key, term, s.ttl)
	return term, nil
}

// List returns paginated terms.
func (s *TermService) List(ctx context.Context, filter models.TermFilter) ([]models.Term, *models.Pagination, error) {
	terms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	return terms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create adds a term after checking its range does not overlap an existing one.
func (s *TermService) Create(ctx context.Context, req CreateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	if req.StartDate > req.EndDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}

	overlap, err := s.repo.Overlaps(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check term overlap")
	}
	if overlap {
		return nil, appErrors.Clone(appErrors.ErrConflict, "term overlaps an existing term")
	}

	term := &models.Term{
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := s.repo.Create(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}

	_ = s.cache.Invalidate(ctx, termCachePrefix+"*")
	s.logger.Info("term created", zap.String("semester", term.Semester()), zap.String("start", term.StartDate), zap.String("end", term.EndDate))
	return term, nil
}

// IsTermNotFound reports whether err is the missing term condition.
func IsTermNotFound(err error) bool {
	appErr := appErrors.FromError(err)
	return appErr != nil && appErr.Code == appErrors.ErrTermNotFound.Code
}
