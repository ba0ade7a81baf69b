package models

// Role is the closed set of access roles a profile can hold. RoleNone means
// the session is authenticated but has no usable profile row, which grants
// access to nothing.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
	RoleNone  Role = ""
)

// ParseRole maps a stored role string onto the closed Role set. Anything
// unrecognized collapses to RoleNone.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	default:
		return RoleNone
	}
}

// HomeRoute returns the landing route for a role. Unknown roles land on the
// user dashboard, which is the least privileged surface.
func (r Role) HomeRoute() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleUser:
		return "/user/dashboard"
	default:
		return "/user/dashboard"
	}
}
