package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleLevelOrder(t *testing.T) {
	assert.Less(t, RoleClient.Level(), RolePowerUser.Level())
	assert.Less(t, RolePowerUser.Level(), RoleAdmin.Level())
	assert.Equal(t, 0, Role("superadmin").Level())
}

func TestRoleAtLeast(t *testing.T) {
	for _, have := range Roles {
		for _, need := range Roles {
			assert.Equal(t, have.Level() >= need.Level(), have.AtLeast(need), "%s >= %s", have, need)
		}
	}
	assert.False(t, Role("").AtLeast(RoleClient))
}

func TestParseRoleAndUnit(t *testing.T) {
	r, err := ParseRole("power_user")
	require.NoError(t, err)
	assert.Equal(t, RolePowerUser, r)
	_, err = ParseRole("Admin")
	assert.Error(t, err)

	u, err := ParseUnit("ream")
	require.NoError(t, err)
	assert.Equal(t, UnitReam, u)
	_, err = ParseUnit("crate")
	assert.Error(t, err)
}

func TestComputeUserStatsPartitions(t *testing.T) {
	users := []User{
		{Role: RoleClient}, {Role: RoleClient}, {Role: RoleAdmin},
		{Role: RolePowerUser}, {Role: RoleClient},
	}
	stats := ComputeUserStats(users)
	assert.Equal(t, UserStats{Total: 5, Clients: 3, PowerUsers: 1, Admins: 1}, stats)
	assert.Equal(t, stats.Total, stats.Clients+stats.PowerUsers+stats.Admins)

	assert.Equal(t, UserStats{}, ComputeUserStats(nil))
}
