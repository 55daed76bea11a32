// Package access decides whether a session may reach a role-gated page or action.
package access

import "school-supply-tracker-api-server/internal/models"

// Outcome of an access check.
type Outcome string

const (
	Allow    Outcome = "allow"
	Redirect Outcome = "redirect"
	Deny     Outcome = "deny"
)

// Phase is the point in a page's lifecycle at which the check runs.
// The two phases resolve an insufficient role differently.
type Phase string

const (
	// PhaseLoad checks while the page is still loading: insufficient role redirects to the dashboard.
	PhaseLoad Phase = "load"
	// PhasePostLoad checks after render: insufficient role is denied in place.
	PhasePostLoad Phase = "post"
)

const (
	SignInPath    = "/auth/signin"
	DashboardPath = "/dashboard"
)

type Decision struct {
	Outcome      Outcome     `json:"outcome"`
	RedirectTo   string      `json:"redirectTo,omitempty"`
	RequiredRole models.Role `json:"requiredRole,omitempty"`
	UserRole     models.Role `json:"userRole,omitempty"`
}

// CanAccess resolves a check. A nil userRole means nobody is signed in;
// a nil required role admits any signed-in user.
func CanAccess(userRole *models.Role, required *models.Role, phase Phase) Decision {
	if userRole == nil {
		return Decision{Outcome: Redirect, RedirectTo: SignInPath}
	}
	if required == nil {
		return Decision{Outcome: Allow, UserRole: *userRole}
	}
	d := Decision{RequiredRole: *required, UserRole: *userRole}
	if userRole.AtLeast(*required) {
		d.Outcome = Allow
		return d
	}
	if phase == PhaseLoad {
		d.Outcome = Redirect
		d.RedirectTo = DashboardPath
		return d
	}
	d.Outcome = Deny
	return d
}

// ParsePhase defaults to PhasePostLoad for anything but "load".
func ParsePhase(s string) Phase {
	if Phase(s) == PhaseLoad {
		return PhaseLoad
	}
	return PhasePostLoad
}
