package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

// UserStore is the slice of the users collection the identity gateway needs.
// GetUser and GetUserByEmail return an apperr not-found error for unknown users.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserRole(ctx context.Context, uid string, role models.Role) error
}

// Publisher pushes session events to a user's open sockets.
type Publisher interface {
	PublishTo(uid string, eventType string, data interface{})
}

const (
	EventSignedOut   = "session.signed_out"
	EventRoleChanged = "session.role_changed"
)

const minPasswordLength = 6

var validate = validator.New()

// Identity signs users up and in, and resolves tokens back into sessions.
type Identity struct {
	Users     UserStore
	Tokens    *TokenManager
	Revoked   Revoker
	Publisher Publisher
	HashCost  int

	now func() time.Time
}

func NewIdentity(users UserStore, tokens *TokenManager, revoked Revoker, pub Publisher) *Identity {
	return &Identity{
		Users:     users,
		Tokens:    tokens,
		Revoked:   revoked,
		Publisher: pub,
		HashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}
}

func (id *Identity) ready() error {
	if id == nil || id.Users == nil || id.Tokens == nil {
		return apperr.NotInitialized("identity backend")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a user record. An empty role defaults to client.
func (id *Identity) SignUp(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, apperr.Auth("invalid_email", "invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Auth("weak_password", "password should be at least 6 characters")
	}
	if role == "" {
		role = models.RoleClient
	}
	if !role.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "unknown role %q", role)
	}

	hash, err := HashPassword(password, id.HashCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    id.now().UTC(),
	}
	if err := id.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn checks credentials and opens a new session.
func (id *Identity) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	user, err := id.Users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Auth(apperr.CodeInvalidCredentials, "invalid email or password")
		}
		return nil, err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Auth(apperr.CodeInvalidCredentials, "invalid email or password")
	}
	token, tokenID, expiresAt, err := id.Tokens.Issue(*user)
	if err != nil {
		return nil, err
	}
	return &Session{User: *user, Token: token, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

// SignOut revokes the session's token and tells its open sockets.
func (id *Identity) SignOut(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	if id.Revoked != nil {
		if err := id.Revoked.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
			return err
		}
	}
	if id.Publisher != nil {
		id.Publisher.PublishTo(s.User.UID, EventSignedOut, map[string]string{"tokenId": s.TokenID})
	}
	return nil
}

// Authenticate turns a bearer token into a session. The user record is
// re-read so role changes apply to tokens issued before them.
func (id *Identity) Authenticate(ctx context.Context, token string) (*Session, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	claims, err := id.Tokens.Parse(token)
	if err != nil {
		return nil, apperr.Auth("invalid_token", "invalid or expired token")
	}
	if id.Revoked != nil {
		revoked, err := id.Revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, apperr.Auth(apperr.CodeSessionRevoked, "session has been signed out")
		}
	}
	user, err := id.FetchUserRecord(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Auth("invalid_token", "user no longer exists")
	}
	return &Session{User: *user, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// FetchUserRecord returns nil, nil when uid is unknown.
func (id *Identity) FetchUserRecord(ctx context.Context, uid string) (*models.User, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	user, err := id.Users.GetUser(ctx, uid)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// SetUserRole overwrites the role field only. Setting the current role again is a no-op write.
func (id *Identity) SetUserRole(ctx context.Context, uid string, role models.Role) error {
	if err := id.ready(); err != nil {
		return err
	}
	if !role.Valid() {
		return apperr.Validation(apperr.CodeInvalidInput, "unknown role %q", role)
	}
	if err := id.Users.SetUserRole(ctx, uid, role); err != nil {
		return err
	}
	if id.Publisher != nil {
		id.Publisher.PublishTo(uid, EventRoleChanged, map[string]models.Role{"role": role})
	}
	return nil
}
