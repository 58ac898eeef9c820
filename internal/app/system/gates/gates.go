// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering appropriate error
// pages when checks fail.
//
// SocietyHub uses two tiers of authorization:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need role checks WITHOUT route-level middleware,
//     or checks that depend on the resource being accessed (e.g. "may only
//     view their own society"). Gates render error pages and return an
//     explicit Result the caller inspects; there is no thrown navigation.
//
// A denial writes the response and returns OK=false, so callers downstream
// of a passing gate may assume the Result satisfies the gate's predicate.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/societyhub/internal/app/features/errors"
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/app/system/authz"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	UserID         primitive.ObjectID
	Role           models.Role
	Name           string
	Email          string
	SocietyID      string // hex, "" for super admins
	FirstLoginDone bool
	OK             bool
}

func fromSession(u *auth.SessionUser, uid primitive.ObjectID) Result {
	return Result{
		UserID:         uid,
		Role:           u.Role,
		Name:           u.Name,
		Email:          u.Email,
		SocietyID:      u.SocietyID,
		FirstLoginDone: u.FirstLoginDone,
		OK:             true,
	}
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it renders an unauthorized error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	return fromSession(u, uid)
}

// RequireRole ensures the user is authenticated and has exactly the given
// role. A user of any other role gets the forbidden page.
func RequireRole(w http.ResponseWriter, r *http.Request, role models.Role, forbiddenMsg, fallbackURL string) Result {
	res := RequireAuth(w, r)
	if !res.OK {
		return res
	}
	if res.Role != role {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return res
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string, allowed ...models.Role) Result {
	res := RequireAuth(w, r)
	if !res.OK {
		return res
	}
	for _, role := range allowed {
		if res.Role == role {
			return res
		}
	}
	uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
	return Result{OK: false}
}

// RequireSuperAdmin ensures the user is a super admin.
func RequireSuperAdmin(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	return RequireRole(w, r, models.RoleSuperAdmin, forbiddenMsg, fallbackURL)
}

// RequireSocietyAdmin ensures the user is a society admin.
func RequireSocietyAdmin(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	return RequireRole(w, r, models.RoleSocietyAdmin, forbiddenMsg, fallbackURL)
}

// RequireAdminOrAbove ensures the user is a super admin, society admin, or
// unit admin.
func RequireAdminOrAbove(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	res := RequireAuth(w, r)
	if !res.OK {
		return res
	}
	if !res.Role.AdminOrAbove() {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return res
}

// RequireSocietyAccess ensures the user is admin-or-above and may manage the
// given society: super admins may manage any society, society-scoped admins
// only their own.
func RequireSocietyAccess(w http.ResponseWriter, r *http.Request, societyID primitive.ObjectID, fallbackURL string) Result {
	res := RequireAdminOrAbove(w, r, "You don't have access to this society.", fallbackURL)
	if !res.OK {
		return res
	}
	if !authz.CanAccessSociety(r, societyID) {
		uierrors.RenderForbidden(w, r, "You don't have access to this society.", fallbackURL)
		return Result{OK: false}
	}
	return res
}
