package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/access"
	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/models"
)

// Check returns the raw gate decision for ?role=&phase=, so a page shell can
// redirect while loading or deny after render. Anonymous callers get a
// redirect to sign-in rather than a 401.
func Check(c *gin.Context) {
	var required *models.Role
	if raw := c.Query("role"); raw != "" {
		r, err := models.ParseRole(raw)
		if err != nil {
			respondError(c, apperr.Validation(apperr.CodeInvalidInput, "%s", err.Error()))
			return
		}
		required = &r
	}
	sess := auth.CurrentUser(c.Request.Context())
	c.JSON(http.StatusOK, access.CanAccess(sess.Role(), required, access.ParsePhase(c.Query("phase"))))
}
