package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/pkg/response"
)

type tokenIssuer interface {
	IssueToken(userID string) (*models.IssuedToken, error)
}

// TokenRequest names the LINE user a token is minted for.
type TokenRequest struct {
	UserID string `json:"user_id"`
}

// AuthHandler mints user scoped tokens for LIFF sessions.
type AuthHandler struct {
	service tokenIssuer
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(svc tokenIssuer) *AuthHandler {
	return &AuthHandler{service: svc}
}

// IssueToken godoc
// @Summary Issue a token scoped to one LINE user
// @Description Requires the shared API key. The token only grants access to the named user's data.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body handler.TokenRequest true "LINE user"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	issued, err := h.service.IssueToken(req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issued, nil)
}
