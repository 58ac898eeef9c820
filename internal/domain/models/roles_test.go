package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"super_admin", RoleSuperAdmin, true},
		{"SUPER_ADMIN", RoleSuperAdmin, true},
		{"  society_admin  ", RoleSocietyAdmin, true},
		{"admin", RoleAdmin, true},
		{"tenant", RoleTenant, true},
		{"visitor", "visitor", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRoleAdminOrAbove(t *testing.T) {
	if !RoleSuperAdmin.AdminOrAbove() || !RoleSocietyAdmin.AdminOrAbove() || !RoleAdmin.AdminOrAbove() {
		t.Error("expected admin roles to be admin-or-above")
	}
	if RoleTenant.AdminOrAbove() {
		t.Error("expected tenant not to be admin-or-above")
	}
}

func TestRoleSocietyScoped(t *testing.T) {
	if RoleSuperAdmin.SocietyScoped() {
		t.Error("super admin must not be society scoped")
	}
	for _, r := range []Role{RoleSocietyAdmin, RoleAdmin, RoleTenant} {
		if !r.SocietyScoped() {
			t.Errorf("expected %s to be society scoped", r)
		}
	}
}

func TestRoleLabel(t *testing.T) {
	if got := RoleSocietyAdmin.Label(); got != "Society Admin" {
		t.Errorf("Label() = %q, want %q", got, "Society Admin")
	}
	if got := Role("mystery").Label(); got != "mystery" {
		t.Errorf("unknown role label = %q, want passthrough", got)
	}
}

func TestSocietyStatusBadge(t *testing.T) {
	if got := SocietyStatusBadge("suspended"); got != "badge-suspended" {
		t.Errorf("SocietyStatusBadge(suspended) = %q", got)
	}
	if got := SocietyStatusBadge("bogus"); got != "badge-default" {
		t.Errorf("SocietyStatusBadge(bogus) = %q", got)
	}
}
