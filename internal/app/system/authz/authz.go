// Package authz reads the authenticated user out of the request context and
// answers role questions. All checks fail closed.
package authz

import (
	"net/http"

	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role, name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// ok=false so callers can trust that ok=true means a valid, authenticated
// user with a valid ObjectID.
func UserCtx(r *http.Request) (role models.Role, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return user.Role, user.Name, userID, true
}

// IsSuperAdmin reports whether the current request's user is a super admin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSuperAdmin
}

// IsAdminOrAbove reports whether the user may manage society data
// (super_admin, society_admin, or admin).
func IsAdminOrAbove(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role.AdminOrAbove()
}

// IsTenant reports whether the current request's user is a tenant.
func IsTenant(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleTenant
}

// UserSocietyID returns the current user's society ID as an ObjectID.
// Returns NilObjectID if the user is not logged in or has no society
// (super admins).
func UserSocietyID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.SocietyID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.SocietyID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CanAccessSociety reports whether the current user may view the given
// society. Super admins can access all societies; society-scoped roles only
// their own.
func CanAccessSociety(r *http.Request, societyID primitive.ObjectID) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	if user.Role == models.RoleSuperAdmin {
		return true
	}
	if user.SocietyID == "" {
		return false
	}
	own, err := primitive.ObjectIDFromHex(user.SocietyID)
	if err != nil {
		return false
	}
	return own == societyID
}
