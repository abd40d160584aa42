package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-liff-api/internal/service"
	"github.com/noah-isme/schedule-liff-api/pkg/response"
)

type timetableExporter interface {
	Export(ctx context.Context, userID, format string) (*service.ExportFile, error)
	Share(ctx context.Context, userID, format string) (*service.SharedExport, error)
	OpenShared(token string) (*service.ExportFile, error)
}

// ShareRequest asks for a signed download link.
type ShareRequest struct {
	UserID string `json:"user_id"`
	Format string `json:"format"`
}

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service timetableExporter
	today   func() string
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc timetableExporter, today func() string) *ExportHandler {
	return &ExportHandler{service: svc, today: today}
}

// Download godoc
// @Summary Download the active term timetable
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Produce text/calendar
// @Param user_id query string true "LINE user id"
// @Param format query string false "csv, pdf or ics" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /schedule/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	userID := c.Query("user_id")
	if err := actAs(c, userID); err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), userID, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		respondWithToday(c, err, h.today)
		return
	}
	sendFile(c, file)
}

// Share godoc
// @Summary Create a signed link to the active term timetable
// @Description The link needs no credentials, so calendar apps can subscribe to the ics export.
// @Tags Export
// @Accept json
// @Produce json
// @Param payload body handler.ShareRequest true "Owner and format"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedule/export/share [post]
func (h *ExportHandler) Share(c *gin.Context) {
	var req ShareRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := actAs(c, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	format := req.Format
	if format == "" {
		format = service.ExportFormatICS
	}
	shared, err := h.service.Share(c.Request.Context(), req.UserID, format)
	if err != nil {
		respondWithToday(c, err, h.today)
		return
	}
	response.JSON(c, http.StatusOK, shared, nil)
}

// Shared godoc
// @Summary Fetch a shared timetable export
// @Tags Export
// @Produce text/calendar
// @Param token path string true "Signed link token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedule/export/shared/{token} [get]
func (h *ExportHandler) Shared(c *gin.Context) {
	file, err := h.service.OpenShared(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
