// server/internal/api/handlers/auth_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/metrics"
	"school-supply-tracker-api-server/internal/models"
)

type AuthHandler struct {
	Identity *auth.Identity
	Metrics  *metrics.Metrics
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers a client account. Elevated roles are granted by an admin.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != "" && req.Role != string(models.RoleClient) {
		respondError(c, apperr.Forbidden("only client accounts can be created by sign-up"))
		return
	}

	user, err := h.Identity.SignUp(c.Request.Context(), req.Email, req.Password, models.RoleClient)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.Identity.SignIn(c.Request.Context(), req.Email, req.Password)
	h.countSignIn(err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.Identity.SignOut(c.Request.Context(), auth.CurrentUser(c.Request.Context())); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// Me returns the current user record.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := auth.CurrentUser(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"user": sess.User, "expiresAt": sess.ExpiresAt})
}

func (h *AuthHandler) countSignIn(err error) {
	if h.Metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	h.Metrics.SignInAttempts.WithLabelValues(result).Inc()
}
