package models

import "strings"

// Role is the canonical user role. All role comparisons in the app go
// through this type; handlers and templates use the mapping helpers below
// instead of scattering string switches.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleSocietyAdmin Role = "society_admin"
	RoleAdmin        Role = "admin"
	RoleTenant       Role = "tenant"
)

// ParseRole normalizes a raw role string. Unknown values come back as-is
// with ok=false so callers can fail closed.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleSuperAdmin, RoleSocietyAdmin, RoleAdmin, RoleTenant:
		return r, true
	}
	return r, false
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// AdminOrAbove reports whether r may manage society data.
func (r Role) AdminOrAbove() bool {
	return r == RoleSuperAdmin || r == RoleSocietyAdmin || r == RoleAdmin
}

// SocietyScoped reports whether r must belong to exactly one society.
// The inverse holds for super admins, which belong to none.
func (r Role) SocietyScoped() bool {
	return r == RoleSocietyAdmin || r == RoleAdmin || r == RoleTenant
}

var roleLabels = map[Role]string{
	RoleSuperAdmin:   "Super Admin",
	RoleSocietyAdmin: "Society Admin",
	RoleAdmin:        "Admin",
	RoleTenant:       "Tenant",
}

// Label returns the display name for the role.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

var roleBadges = map[Role]string{
	RoleSuperAdmin:   "badge-super-admin",
	RoleSocietyAdmin: "badge-society-admin",
	RoleAdmin:        "badge-admin",
	RoleTenant:       "badge-tenant",
}

// BadgeClass returns the CSS class used to render the role badge.
func (r Role) BadgeClass() string {
	if c, ok := roleBadges[r]; ok {
		return c
	}
	return "badge-default"
}
