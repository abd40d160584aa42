package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-liff-api/internal/dto"
	"github.com/noah-isme/schedule-liff-api/internal/service"
	"github.com/noah-isme/schedule-liff-api/pkg/response"
)

type scheduleQuerier interface {
	Query(ctx context.Context, q dto.ScheduleQuery) (*dto.ScheduleResponse, error)
	Today() string
}

// ScheduleHandler answers timetable intents for the LIFF app and the chat bot.
type ScheduleHandler struct {
	service scheduleQuerier
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc scheduleQuerier) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Query godoc
// @Summary Resolve a schedule intent
// @Description Answers schedule_all, schedule_week, schedule_day, schedule_day_endtime, schedule_first, schedule_last, schedule_current and schedule_next. Unknown intents return ok=false with HTTP 200.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleQuery true "Intent and optional date hints"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /schedule/query [post]
func (h *ScheduleHandler) Query(c *gin.Context) {
	var req dto.ScheduleQuery
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := actAs(c, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Query(c.Request.Context(), req)
	if err != nil {
		respondWithToday(c, err, h.service.Today)
		return
	}
	response.Raw(c, http.StatusOK, resp)
}

// respondWithToday adds the date a missing term was looked up for.
func respondWithToday(c *gin.Context, err error, today func() string) {
	if service.IsTermNotFound(err) {
		response.ErrorWithMeta(c, err, map[string]interface{}{"today": today()})
		return
	}
	response.Error(c, err)
}
