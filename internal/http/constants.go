package httpx

import domainauth "github.com/edupulse/edupulse/internal/domain/auth"

// Cookie names shared across handlers and middleware.
const (
	SessionCookieName = "session_id"
	// RoleHintCookieName carries the last resolved role. It is advisory only:
	// guards never consult it, and the server rewrites it on every resolution.
	RoleHintCookieName = "role_hint"
)

// Browser route paths.
const (
	LoginPath     = "/login"
	StudentPath   = "/student-dashboard"
	TeacherPath   = "/teacher-dashboard"
	AdminPath     = "/admin-dashboard"
	MinistryPath  = "/ministry-dashboard"
	SignedOutPath = "/auth/signed-out"
)

// DashboardPathFor maps a role onto its dashboard route. Anything outside the
// closed enumeration lands on the login page.
func DashboardPathFor(role domainauth.Role) string {
	switch domainauth.ParseRole(string(role)) {
	case domainauth.RoleStudent:
		return StudentPath
	case domainauth.RoleTeacher:
		return TeacherPath
	case domainauth.RoleInstitutionAdmin:
		return AdminPath
	case domainauth.RoleMinistryAdmin:
		return MinistryPath
	default:
		return LoginPath
	}
}
