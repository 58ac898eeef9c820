package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID             string
	Name           string
	Email          string
	Role           models.Role
	SocietyID      string
	FirstLoginDone bool
}

// SuperAdminUser returns a TestUser with the super admin role.
func SuperAdminUser() TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Super Admin",
		Email:          "super@test.com",
		Role:           models.RoleSuperAdmin,
		FirstLoginDone: true,
	}
}

// SocietyAdminUser returns a TestUser with the society admin role.
func SocietyAdminUser(societyID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Society Admin",
		Email:          "societyadmin@test.com",
		Role:           models.RoleSocietyAdmin,
		SocietyID:      societyID.Hex(),
		FirstLoginDone: true,
	}
}

// AdminUser returns a TestUser with the unit admin role.
func AdminUser(societyID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Admin",
		Email:          "admin@test.com",
		Role:           models.RoleAdmin,
		SocietyID:      societyID.Hex(),
		FirstLoginDone: true,
	}
}

// TenantUser returns a TestUser with the tenant role.
func TenantUser(societyID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Tenant",
		Email:          "tenant@test.com",
		Role:           models.RoleTenant,
		SocietyID:      societyID.Hex(),
		FirstLoginDone: true,
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		SocietyID:      user.SocietyID,
		FirstLoginDone: user.FirstLoginDone,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}
