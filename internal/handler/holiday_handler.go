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

type holidayManager interface {
	Create(ctx context.Context, in service.HolidayInput) (*models.Holiday, error)
	List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error)
	Delete(ctx context.Context, userID string, rawID interface{}) (int64, error)
}

// HolidayHandler manages holidays and class cancellations.
type HolidayHandler struct {
	service holidayManager
}

// NewHolidayHandler constructs a holiday handler.
func NewHolidayHandler(svc holidayManager) *HolidayHandler {
	return &HolidayHandler{service: svc}
}

// Create godoc
// @Summary Record a holiday or cancel a class
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body service.HolidayInput true "Overlay record"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /holidays [post]
func (h *HolidayHandler) Create(c *gin.Context) {
	var in service.HolidayInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	if err := actAs(c, in.UserID); err != nil {
		response.Error(c, err)
		return
	}

	holiday, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// List godoc
// @Summary List holidays and cancellations in a date window
// @Tags Holidays
// @Produce json
// @Param user_id query string true "LINE user id"
// @Param from query string false "First date (YYYY-MM-DD), defaults to today"
// @Param to query string false "Last date (YYYY-MM-DD), defaults to from"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /holidays/list [get]
func (h *HolidayHandler) List(c *gin.Context) {
	filter := models.HolidayFilter{UserID: c.Query("user_id"), From: c.Query("from"), To: c.Query("to")}
	if err := actAs(c, filter.UserID); err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Delete godoc
// @Summary Delete a holiday or cancellation
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.IDRequest true "Owner and record id"
// @Success 200 {object} dto.DeleteResponse
// @Security BearerAuth
// @Router /holidays/delete [post]
func (h *HolidayHandler) Delete(c *gin.Context) {
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
