package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/models"
)

type memUsers struct{ byEmail map[string]*models.User }

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user %s not found", email)
}

func (m *memUsers) SetUserRole(_ context.Context, uid string, role models.Role) error {
	for _, u := range m.byEmail {
		if u.UID == uid {
			u.Role = role
			return nil
		}
	}
	return apperr.NotFound("user %s not found", uid)
}

func TestSeedAdminCreatesOnce(t *testing.T) {
	users := &memUsers{byEmail: map[string]*models.User{}}
	ctx := context.Background()

	admin, err := SeedAdmin(ctx, users, " Admin@Example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.True(t, auth.CheckPasswordHash("admin123", admin.PasswordHash))

	again, err := SeedAdmin(ctx, users, "admin@example.com", "other")
	require.NoError(t, err)
	assert.Equal(t, admin.UID, again.UID)
	assert.Len(t, users.byEmail, 1)
}

func TestSeedAdminPromotesExistingUser(t *testing.T) {
	users := &memUsers{byEmail: map[string]*models.User{
		"lead@example.com": {UID: "u1", Email: "lead@example.com", Role: models.RoleClient},
	}}
	u, err := SeedAdmin(context.Background(), users, "lead@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, models.RoleAdmin, users.byEmail["lead@example.com"].Role)
}

func TestSeedAdminNeedsPassword(t *testing.T) {
	users := &memUsers{byEmail: map[string]*models.User{}}
	_, err := SeedAdmin(context.Background(), users, "new@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
