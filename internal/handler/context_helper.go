package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/noah-isme/schedule-liff-api/internal/middleware"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
	"github.com/noah-isme/schedule-liff-api/pkg/logger"
)

// bindJSON decodes the body as JSON whatever the Content-Type; the LIFF client
// posts JSON as text/plain to avoid CORS preflights.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindWith(dst, binding.JSON); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidJSON.Code, appErrors.ErrInvalidJSON.Status, "invalid JSON")
	}
	return nil
}

// actAs tags the request log with userID and checks that the caller may act
// for that user. A blank userID is left for the service to reject.
func actAs(c *gin.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	c.Set(logger.ContextUserIDKey, userID)
	if !middleware.PrincipalFrom(c).CanActAs(userID) {
		return appErrors.Clone(appErrors.ErrForbidden, "token does not belong to this user")
	}
	return nil
}
