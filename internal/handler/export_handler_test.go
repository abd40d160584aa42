package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/service"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type exporterStub struct {
	format string
	userID string
	token  string
	err    error
}

func (s *exporterStub) Export(ctx context.Context, userID, format string) (*service.ExportFile, error) {
	s.userID, s.format = userID, format
	if s.err != nil {
		return nil, s.err
	}
	return &service.ExportFile{Filename: "timetable-2-2568.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("day,start\n")}, nil
}

func (s *exporterStub) Share(ctx context.Context, userID, format string) (*service.SharedExport, error) {
	s.userID, s.format = userID, format
	if s.err != nil {
		return nil, s.err
	}
	return &service.SharedExport{Format: format, Token: "tok", URL: "/api/v1/schedule/export/shared/tok", ExpiresAt: time.Date(2026, 3, 11, 3, 30, 0, 0, time.UTC)}, nil
}

func (s *exporterStub) OpenShared(token string) (*service.ExportFile, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	return &service.ExportFile{Filename: "timetable-2-2568.ics", ContentType: "text/calendar; charset=utf-8", Body: []byte("BEGIN:VCALENDAR")}, nil
}

func TestExportHandlerDownloadDefaultsToCSV(t *testing.T) {
	stub := &exporterStub{}
	h := NewExportHandler(stub, todayFn)
	c, w := newTestContext(http.MethodGet, "/schedule/export?user_id=U123", "", nil)

	h.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, stub.format)
	assert.Equal(t, `attachment; filename="timetable-2-2568.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "day,start\n", w.Body.String())
}

func TestExportHandlerDownloadUnsupportedFormat(t *testing.T) {
	h := NewExportHandler(&exporterStub{err: appErrors.ErrUnsupportedFormat}, todayFn)
	c, w := newTestContext(http.MethodGet, "/schedule/export?user_id=U123&format=xlsx", "", nil)

	h.Download(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, errorCode(t, w))
}

func TestExportHandlerShareDefaultsToICS(t *testing.T) {
	stub := &exporterStub{}
	h := NewExportHandler(stub, todayFn)
	c, w := newTestContext(http.MethodPost, "/schedule/export/share", `{"user_id":"U123"}`, userToken)

	h.Share(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatICS, stub.format)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "/api/v1/schedule/export/shared/tok", data["url"])
}

func TestExportHandlerShareForbidden(t *testing.T) {
	stub := &exporterStub{}
	h := NewExportHandler(stub, todayFn)
	c, w := newTestContext(http.MethodPost, "/schedule/export/share", `{"user_id":"U999"}`, userToken)

	h.Share(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, stub.userID)
}

func TestExportHandlerSharedServesFile(t *testing.T) {
	stub := &exporterStub{}
	h := NewExportHandler(stub, todayFn)
	c, w := newTestContext(http.MethodGet, "/schedule/export/shared/abc", "", nil)
	c.AddParam("token", "abc")

	h.Shared(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", stub.token)
	assert.Equal(t, "BEGIN:VCALENDAR", w.Body.String())
}

func TestExportHandlerSharedExpired(t *testing.T) {
	h := NewExportHandler(&exporterStub{err: appErrors.Clone(appErrors.ErrNotFound, "link expired or invalid")}, todayFn)
	c, w := newTestContext(http.MethodGet, "/schedule/export/shared/abc", "", nil)
	c.AddParam("token", "abc")

	h.Shared(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
