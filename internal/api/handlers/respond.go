package handlers

import (
	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/logger"
)

// respondError renders err with the status its kind maps to. Messages are
// passed through verbatim.
func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	status := e.HTTPStatus()
	if status >= 500 {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
	}
	body := gin.H{"error": e.Error()}
	if e.Code != "" {
		body["code"] = e.Code
	}
	c.JSON(status, body)
}
