package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/internal/service"
	"github.com/noah-isme/schedule-liff-api/pkg/response"
)

type subjectManager interface {
	Create(ctx context.Context, in service.SubjectInput) (*service.SubjectCreated, error)
	List(ctx context.Context, userID string) (*service.SubjectList, error)
	Get(ctx context.Context, userID string, rawID interface{}) (*models.Subject, error)
	Update(ctx context.Context, in service.SubjectInput) (int64, error)
	Delete(ctx context.Context, userID string, rawID interface{}) (int64, error)
	Today() string
}

// SubjectHandler handles the class row endpoints used by the LIFF form.
type SubjectHandler struct {
	service subjectManager
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectManager) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// Create godoc
// @Summary Add a class row to the active term
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.SubjectInput true "Class row"
// @Success 200 {object} dto.SubjectInsertResponse
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var in service.SubjectInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	if err := actAs(c, in.UserID); err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondWithToday(c, err, h.service.Today)
		return
	}
	response.Raw(c, http.StatusOK, dto.SubjectInsertResponse{
		OK:       true,
		Inserted: true,
		Semester: created.Semester,
		Today:    created.Today,
		Meta:     dto.WriteMeta{LastRowID: created.Subject.ID, Changes: 1},
	})
}

// List godoc
// @Summary List the user's class rows for the active term
// @Tags Subjects
// @Produce json
// @Param user_id query string true "LINE user id"
// @Success 200 {object} dto.SubjectListResponse
// @Security BearerAuth
// @Router /subjects/list [get]
func (h *SubjectHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if err := actAs(c, userID); err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondWithToday(c, err, h.service.Today)
		return
	}
	response.Raw(c, http.StatusOK, dto.SubjectListResponse{
		OK:       true,
		Semester: list.Semester,
		Today:    list.Today,
		Data:     list.Subjects,
	})
}

// Get godoc
// @Summary Get one class row
// @Tags Subjects
// @Produce json
// @Param user_id query string true "LINE user id"
// @Param id query int true "Row id"
// @Success 200 {object} dto.SubjectGetResponse
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/get [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	userID := c.Query("user_id")
	if err := actAs(c, userID); err != nil {
		response.Error(c, err)
		return
	}

	subject, err := h.service.Get(c.Request.Context(), userID, c.Query("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, dto.SubjectGetResponse{OK: true, Data: subject})
}

// Update godoc
// @Summary Update a class row
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.SubjectInput true "Class row with id"
// @Success 200 {object} dto.UpdateResponse
// @Security BearerAuth
// @Router /subjects/update [post]
func (h *SubjectHandler) Update(c *gin.Context) {
	var in service.SubjectInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	if err := actAs(c, in.UserID); err != nil {
		response.Error(c, err)
		return
	}

	changes, err := h.service.Update(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, dto.UpdateResponse{OK: true, Updated: changes > 0, Changes: changes})
}

// Delete godoc
// @Summary Delete a class row
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.IDRequest true "Owner and row id"
// @Success 200 {object} dto.DeleteResponse
// @Security BearerAuth
// @Router /subjects/delete [post]
func (h *SubjectHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := actAs(c, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	changes, err := h.service.Delete(c.Request.Context(), req.UserID, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, dto.DeleteResponse{OK: true, Deleted: changes > 0, Changes: changes})
}
