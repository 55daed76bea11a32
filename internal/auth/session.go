package auth

import (
	"context"
	"time"

	"school-supply-tracker-api-server/internal/models"
)

// Session is the signed-in user for one request. It is carried explicitly
// through the request context rather than held in process-wide state.
type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token,omitempty"`
	TokenID   string      `json:"-"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Role returns a pointer suitable for access.CanAccess; nil when s is nil.
func (s *Session) Role() *models.Role {
	if s == nil {
		return nil
	}
	r := s.User.Role
	return &r
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// CurrentUser returns the session stored in ctx, or nil when nobody is signed in.
func CurrentUser(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
