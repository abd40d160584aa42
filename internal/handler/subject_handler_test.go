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

type subjectManagerStub struct {
	input   service.SubjectInput
	rawID   interface{}
	changes int64
	err     error
	calls   int
}

func (s *subjectManagerStub) Create(ctx context.Context, in service.SubjectInput) (*service.SubjectCreated, error) {
	s.calls++
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &service.SubjectCreated{Subject: &models.Subject{ID: 42, UserID: in.UserID}, Semester: "2/2568", Today: testToday}, nil
}

func (s *subjectManagerStub) List(ctx context.Context, userID string) (*service.SubjectList, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &service.SubjectList{Semester: "2/2568", Today: testToday, Subjects: []models.Subject{{ID: 1, UserID: userID, SubjectCode: "CSI101"}}}, nil
}

func (s *subjectManagerStub) Get(ctx context.Context, userID string, rawID interface{}) (*models.Subject, error) {
	s.calls++
	s.rawID = rawID
	if s.err != nil {
		return nil, s.err
	}
	return &models.Subject{ID: 7, UserID: userID}, nil
}

func (s *subjectManagerStub) Update(ctx context.Context, in service.SubjectInput) (int64, error) {
	s.calls++
	s.input = in
	return s.changes, s.err
}

func (s *subjectManagerStub) Delete(ctx context.Context, userID string, rawID interface{}) (int64, error) {
	s.calls++
	s.rawID = rawID
	return s.changes, s.err
}

func (s *subjectManagerStub) Today() string { return testToday }

func TestSubjectHandlerCreateFromTextPlainBody(t *testing.T) {
	stub := &subjectManagerStub{}
	h := NewSubjectHandler(stub)
	body := `{"user_id":"U123","day":"จันทร์","subject_code":"csi101","subject_name":"Intro","section":"1","type":"lecture","room":"A1","start_time":"09:00","end_time":"12:00"}`
	c, w := newTestContext(http.MethodPost, "/subjects", body, userToken)

	h.Create(c)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	assert.Equal(t, true, payload["inserted"])
	assert.Equal(t, "2/2568", payload["semester"])
	meta := payload["meta"].(map[string]interface{})
	assert.Equal(t, float64(42), meta["last_row_id"])
	assert.Equal(t, "csi101", stub.input.SubjectCode)
}

func TestSubjectHandlerCreateInvalidJSON(t *testing.T) {
	stub := &subjectManagerStub{}
	h := NewSubjectHandler(stub)
	c, w := newTestContext(http.MethodPost, "/subjects", `not json`, nil)

	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrInvalidJSON.Code, errorCode(t, w))
	assert.Zero(t, stub.calls)
}

func TestSubjectHandlerListForbiddenForOtherUser(t *testing.T) {
	stub := &subjectManagerStub{}
	h := NewSubjectHandler(stub)
	c, w := newTestContext(http.MethodGet, "/subjects/list?user_id=U999", "", userToken)

	h.List(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, stub.calls)
}

func TestSubjectHandlerListTermMissing(t *testing.T) {
	h := NewSubjectHandler(&subjectManagerStub{err: appErrors.Clone(appErrors.ErrTermNotFound, "")})
	c, w := newTestContext(http.MethodGet, "/subjects/list?user_id=U123", "", nil)

	h.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, testToday, decodeBody(t, w)["meta"].(map[string]interface{})["today"])
}

func TestSubjectHandlerGetPassesQueryID(t *testing.T) {
	stub := &subjectManagerStub{}
	h := NewSubjectHandler(stub)
	c, w := newTestContext(http.MethodGet, "/subjects/get?user_id=U123&id=7", "", nil)

	h.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", stub.rawID)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
}

func TestSubjectHandlerGetNotFound(t *testing.T) {
	h := NewSubjectHandler(&subjectManagerStub{err: appErrors.ErrNotFound})
	c, w := newTestContext(http.MethodGet, "/subjects/get?user_id=U123&id=7", "", nil)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubjectHandlerUpdateReportsChanges(t *testing.T) {
	stub := &subjectManagerStub{changes: 1}
	h := NewSubjectHandler(stub)
	c, w := newTestContext(http.MethodPost, "/subjects/update", `{"user_id":"U123","id":7,"day":"อังคาร"}`, nil)

	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	assert.Equal(t, true, payload["updated"])
	assert.Equal(t, float64(7), stub.input.ID)
}

func TestSubjectHandlerDeleteNothingMatched(t *testing.T) {
	stub := &subjectManagerStub{}
	h := NewSubjectHandler(stub)
	c, w := newTestContext(http.MethodPost, "/subjects/delete", `{"user_id":"U123","id":"9"}`, nil)

	h.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	assert.Equal(t, false, payload["deleted"])
	assert.Equal(t, float64(0), payload["changes"])
	assert.Equal(t, "9", stub.rawID)
}
