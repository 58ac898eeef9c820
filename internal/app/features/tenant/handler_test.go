package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/societyhub/internal/app/features/errors"
	"github.com/dalemusser/societyhub/internal/app/features/tenant"
	"github.com/dalemusser/societyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tenant.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return tenant.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func serveDashboard(handler *tenant.Handler, user testutil.TestUser) *httptest.ResponseRecorder {
	req := testutil.NewAuthenticatedRequest("GET", "/tenant", user)
	rec := httptest.NewRecorder()

	// Rendering panics without an initialized template engine; assertions
	// only need the recorder state written before the render call.
	func() {
		defer func() { recover() }()
		handler.ServeDashboard(rec, req)
	}()
	return rec
}

func TestServeDashboard_MissingSocietyIsNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Valid society ID with no matching record.
	rec := serveDashboard(handler, testutil.TenantUser(primitive.NewObjectID()))

	if rec.Code == http.StatusInternalServerError {
		t.Error("missing society must not surface as a server error")
	}
}

func TestServeDashboard_NonTenantIsForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	soc := fixtures.CreateSociety(ctx, "Maple Court")

	rec := serveDashboard(handler, testutil.AdminUser(soc.ID))

	if rec.Code == http.StatusOK {
		t.Error("unit admins must not pass the tenant gate")
	}
}
