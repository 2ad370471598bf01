package model

// Role is the server-assigned access class of a portal user. The client
// treats it as an opaque string; only the satisfaction rule below is known.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Satisfies reports whether a user holding r may enter a subtree gated on
// required. An empty requirement is satisfied by every role. superadmin
// satisfies admin gates; every other role satisfies only itself.
func (r Role) Satisfies(required Role) bool {
	if required == "" {
		return true
	}
	if r == required {
		return true
	}
	return r == RoleSuperAdmin && required == RoleAdmin
}

// IsAdmin reports whether r grants access to the admin dashboard.
func (r Role) IsAdmin() bool {
	return r.Satisfies(RoleAdmin)
}

func (r Role) String() string {
	return string(r)
}
