package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/internal/service"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
	"github.com/noah-isme/schedule-liff-api/pkg/response"
)

type termAdmin interface {
	Resolve(ctx context.Context, date string) (*models.Term, error)
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, *models.Pagination, error)
	Create(ctx context.Context, req service.CreateTermRequest) (*models.Term, error)
}

// TermHandler serves academic term lookups and administration.
type TermHandler struct {
	service termAdmin
	today   func() string
}

// NewTermHandler constructs a term handler; today yields the current civil date.
func NewTermHandler(svc termAdmin, today func() string) *TermHandler {
	return &TermHandler{service: svc, today: today}
}

// Resolve godoc
// @Summary Resolve the active academic term
// @Tags Terms
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TermResolveResponse
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /term/resolve [get]
func (h *TermHandler) Resolve(c *gin.Context) {
	today := h.today()
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = today
	} else if !calendar.IsDate(date) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}

	term, err := h.service.Resolve(c.Request.Context(), date)
	if err != nil {
		if service.IsTermNotFound(err) {
			msg := "term not found for today"
			if date != today {
				msg = "term not found for " + date
			}
			notFound := appErrors.Clone(appErrors.ErrTermNotFound, msg)
			notFound.Status = http.StatusNotFound
			response.ErrorWithMeta(c, notFound, map[string]interface{}{"today": today})
			return
		}
		response.Error(c, err)
		return
	}

	response.Raw(c, http.StatusOK, dto.TermResolveResponse{
		OK:           true,
		Today:        today,
		AcademicYear: term.AcademicYear,
		Term:         term.Term,
		Semester:     term.Semester(),
		StartDate:    term.StartDate,
		EndDate:      term.EndDate,
	})
}

// List godoc
// @Summary List academic terms
// @Tags Terms
// @Produce json
// @Param academic_year query string false "Filter by academic year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	var filter models.TermFilter
	filter.AcademicYear = strings.TrimSpace(c.Query("academic_year"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	terms, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, pagination)
}

// Create godoc
// @Summary Create an academic term
// @Tags Terms
// @Accept json
// @Produce json
// @Param payload body service.CreateTermRequest true "Term payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /terms [post]
func (h *TermHandler) Create(c *gin.Context) {
	var req service.CreateTermRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	term, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}
