// server/internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/access"
	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/models"
)

// Context keys set by Authenticate.
const (
	SessionKey = "session"
	UserUIDKey = "user_uid"
)

// Authenticate resolves the bearer token into a session and stores it on
// both the gin context and the request context.
func Authenticate(identity *auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		sess, err := identity.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			e := apperr.From(err)
			c.AbortWithStatusJSON(e.HTTPStatus(), gin.H{"error": e.Error(), "code": e.Code})
			return
		}
		sess.Token = tokenString

		c.Set(SessionKey, sess)
		c.Set(UserUIDKey, sess.User.UID)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), sess))

		c.Next()
	}
}

// OptionalAuthenticate attaches a session when a valid bearer token is
// present and otherwise lets the request through anonymously.
func OptionalAuthenticate(identity *auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" || tokenString == c.GetHeader("Authorization") {
			c.Next()
			return
		}
		if sess, err := identity.Authenticate(c.Request.Context(), tokenString); err == nil {
			sess.Token = tokenString
			c.Set(SessionKey, sess)
			c.Set(UserUIDKey, sess.User.UID)
			c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), sess))
		}
		c.Next()
	}
}

// Authorize admits sessions whose role is at least required. It runs after
// the page has loaded, so an insufficient role is denied in place.
func Authorize(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := auth.CurrentUser(c.Request.Context())
		d := access.CanAccess(sess.Role(), &required, access.PhasePostLoad)
		switch d.Outcome {
		case access.Allow:
			c.Next()
		case access.Redirect:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required", "redirectTo": d.RedirectTo})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":        "Access denied",
				"requiredRole": d.RequiredRole,
				"userRole":     d.UserRole,
			})
		}
	}
}
