// server/internal/api/handlers/user_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/models"
	"school-supply-tracker-api-server/internal/services"
)

// UserHandler serves the admin user-management screens.
type UserHandler struct {
	Users    *services.UserService
	Identity *auth.Identity
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "stats": models.ComputeUserStats(users)})
}

func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.Users.UserStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Identity.FetchUserRecord(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, apperr.NotFound("user %s not found", c.Param("uid")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SetRole goes through the identity gateway so the user's open sessions hear about it.
func (h *UserHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidInput, "%s", err.Error()))
		return
	}
	uid := c.Param("uid")
	if err := h.Identity.SetUserRole(c.Request.Context(), uid, role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": uid, "role": role})
}
