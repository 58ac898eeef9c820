// Package navigation owns the redirect policy: the single mapping from a
// user to the page they must land on. Login, the home page, the password
// change flow, and the guards all call DestinationFor so the call sites can
// never diverge.
package navigation

import (
	"net/http"

	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// Landing paths.
const (
	LoginPath          = "/login"
	UnauthorizedPath   = "/unauthorized"
	ChangePasswordPath = "/change-password"
	SuperAdminPath     = "/super-admin"
	TenantPath         = "/tenant"
	SocietyPathPrefix  = "/society/"
)

// DestinationFor maps a user to their landing path.
//
// An incomplete first login overrides all role logic: the user goes to the
// password change page no matter what. Otherwise the role decides, with
// society-scoped roles landing on their own society's dashboard. Unknown
// roles land on /unauthorized.
func DestinationFor(role models.Role, societyHex string, firstLoginCompleted bool) string {
	if !firstLoginCompleted {
		return ChangePasswordPath
	}

	switch role {
	case models.RoleSuperAdmin:
		return SuperAdminPath
	case models.RoleSocietyAdmin, models.RoleAdmin:
		return SocietyPathPrefix + societyHex
	case models.RoleTenant:
		return TenantPath
	default:
		return UnauthorizedPath
	}
}

// DestinationForUser is DestinationFor applied to a session user.
func DestinationForUser(u *auth.SessionUser) string {
	return DestinationFor(u.Role, u.SocietyID, u.FirstLoginDone)
}

// SafeBackURL resolves the "return" parameter to a same-site URL, falling
// back to def.
func SafeBackURL(r *http.Request, def string) string {
	return httpnav.ResolveBackURL(r, def)
}
