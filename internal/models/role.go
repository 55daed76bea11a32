package models

import "fmt"

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleClient    Role = "client"
	RolePowerUser Role = "power_user"
	RoleAdmin     Role = "admin"
)

// Roles lists every role from lowest to highest.
var Roles = []Role{RoleClient, RolePowerUser, RoleAdmin}

// Level returns the position of r in the hierarchy: client=1, power_user=2, admin=3.
// Unknown roles are 0 so they never satisfy a requirement.
func (r Role) Level() int {
	switch r {
	case RoleClient:
		return 1
	case RolePowerUser:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

func (r Role) Valid() bool { return r.Level() > 0 }

// AtLeast reports whether r satisfies required.
func (r Role) AtLeast(required Role) bool {
	return r.Valid() && r.Level() >= required.Level()
}

// ParseRole converts s into a Role, rejecting anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
