package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

type memDirectory struct {
	users []models.User
}

func (d *memDirectory) ListUsers(context.Context) ([]models.User, error) {
	return append([]models.User(nil), d.users...), nil
}

func (d *memDirectory) SetUserRole(_ context.Context, uid string, role models.Role) error {
	for i := range d.users {
		if d.users[i].UID == uid {
			d.users[i].Role = role
			return nil
		}
	}
	return apperr.NotFound("user %s not found", uid)
}

func TestUserStatsPartitionsRoles(t *testing.T) {
	dir := &memDirectory{users: []models.User{
		{UID: "a", Role: models.RoleAdmin},
		{UID: "b", Role: models.RoleClient},
		{UID: "c", Role: models.RoleClient},
		{UID: "d", Role: models.RolePowerUser},
	}}
	svc := &UserService{Users: dir, Roles: dir}

	stats, err := svc.UserStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Total: 4, Clients: 2, PowerUsers: 1, Admins: 1}, stats)
	assert.Equal(t, stats.Total, stats.Clients+stats.PowerUsers+stats.Admins)
}

func TestSetUserRoleIsIdempotent(t *testing.T) {
	dir := &memDirectory{users: []models.User{{UID: "b", Email: "b@school.org", Role: models.RoleClient}}}
	svc := &UserService{Users: dir, Roles: dir}
	ctx := context.Background()

	require.NoError(t, svc.SetUserRole(ctx, "b", models.RolePowerUser))
	require.NoError(t, svc.SetUserRole(ctx, "b", models.RolePowerUser))
	assert.Equal(t, models.RolePowerUser, dir.users[0].Role)
	assert.Equal(t, "b@school.org", dir.users[0].Email)

	assert.ErrorIs(t, svc.SetUserRole(ctx, "zz", models.RoleAdmin), apperr.ErrNotFound)
}

func TestUserServiceNotInitialized(t *testing.T) {
	svc := &UserService{}
	_, err := svc.UserStats(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
	assert.ErrorIs(t, svc.SetUserRole(context.Background(), "x", models.RoleAdmin), apperr.ErrNotInitialized)
}
