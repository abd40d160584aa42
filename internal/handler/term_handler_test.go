package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/internal/service"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type termAdminStub struct {
	term    *models.Term
	err     error
	date    string
	created service.CreateTermRequest
}

func (s *termAdminStub) Resolve(ctx context.Context, date string) (*models.Term, error) {
	s.date = date
	return s.term, s.err
}

func (s *termAdminStub) List(ctx context.Context, filter models.TermFilter) ([]models.Term, *models.Pagination, error) {
	return []models.Term{*s.term}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (s *termAdminStub) Create(ctx context.Context, req service.CreateTermRequest) (*models.Term, error) {
	s.created = req
	return s.term, s.err
}

var secondTerm = &models.Term{ID: 1, AcademicYear: "2568", Term: 2, StartDate: "2025-11-01", EndDate: "2026-03-31"}

func TestTermHandlerResolveToday(t *testing.T) {
	stub := &termAdminStub{term: secondTerm}
	h := NewTermHandler(stub, todayFn)
	c, w := newTestContext(http.MethodGet, "/term/resolve", "", nil)

	h.Resolve(c)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	assert.Equal(t, "2/2568", payload["semester"])
	assert.Equal(t, testToday, payload["today"])
	assert.Equal(t, testToday, stub.date)
}

func TestTermHandlerResolveMissingTermIs404(t *testing.T) {
	stub := &termAdminStub{err: appErrors.Clone(appErrors.ErrTermNotFound, "")}
	h := NewTermHandler(stub, todayFn)
	c, w := newTestContext(http.MethodGet, "/term/resolve?date=2026-05-01", "", nil)

	h.Resolve(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	payload := decodeBody(t, w)
	errObj := payload["error"].(map[string]interface{})
	assert.Equal(t, "term not found for 2026-05-01", errObj["message"])
	assert.Equal(t, testToday, payload["meta"].(map[string]interface{})["today"])
}

func TestTermHandlerResolveRejectsBadDate(t *testing.T) {
	stub := &termAdminStub{term: secondTerm}
	h := NewTermHandler(stub, todayFn)
	c, w := newTestContext(http.MethodGet, "/term/resolve?date=04/03/2026", "", nil)

	h.Resolve(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.date)
}

func TestTermHandlerListPaginates(t *testing.T) {
	h := NewTermHandler(&termAdminStub{term: secondTerm}, todayFn)
	c, w := newTestContext(http.MethodGet, "/terms?page=2&limit=5", "", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	pagination := decodeBody(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(5), pagination["page_size"])
}

func TestTermHandlerCreate(t *testing.T) {
	stub := &termAdminStub{term: secondTerm}
	h := NewTermHandler(stub, todayFn)
	c, w := newTestContext(http.MethodPost, "/terms", `{"academic_year":"2568","term":2,"start_date":"2025-11-01","end_date":"2026-03-31"}`, nil)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2568", stub.created.AcademicYear)
}
