package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/societyhub/internal/domain/models"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(strings.Repeat("k", 32), "societyhub-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func htmlRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Accept", "text/html")
	return r
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "s", "", false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_RedirectsAnonymousToLogin(t *testing.T) {
	sm := newTestManager(t)
	next, called := okHandler()

	rec := httptest.NewRecorder()
	sm.RequireSignedIn(next).ServeHTTP(rec, htmlRequest("GET", "/super-admin"))

	if *called {
		t.Error("handler must not run for anonymous requests")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("Location = %q, want /login with return param", loc)
	}
}

func TestRequireSignedIn_APIGets401(t *testing.T) {
	sm := newTestManager(t)
	next, _ := okHandler()

	rec := httptest.NewRecorder()
	sm.RequireSignedIn(next).ServeHTTP(rec, httptest.NewRequest("GET", "/super-admin", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSignedIn_PassesThroughUser(t *testing.T) {
	sm := newTestManager(t)
	next, called := okHandler()

	req := WithTestUser(htmlRequest("GET", "/tenant"), &SessionUser{
		ID: "507f1f77bcf86cd799439011", Role: models.RoleTenant, FirstLoginDone: true,
	})

	rec := httptest.NewRecorder()
	sm.RequireSignedIn(next).ServeHTTP(rec, req)

	if !*called {
		t.Error("handler should run for signed-in user")
	}
}

func TestRequireRole_WrongRoleGoesToUnauthorized(t *testing.T) {
	sm := newTestManager(t)
	next, called := okHandler()

	// Tenant with completed first login requesting a super-admin page lands
	// on /unauthorized, not on their own dashboard.
	req := WithTestUser(htmlRequest("GET", "/super-admin"), &SessionUser{
		ID: "507f1f77bcf86cd799439011", Role: models.RoleTenant, FirstLoginDone: true,
	})

	rec := httptest.NewRecorder()
	sm.RequireRole(models.RoleSuperAdmin)(next).ServeHTTP(rec, req)

	if *called {
		t.Error("handler must not run for wrong role")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/unauthorized" {
		t.Errorf("Location = %q, want /unauthorized", loc)
	}
}

func TestRequireRole_AllowsListedRoles(t *testing.T) {
	sm := newTestManager(t)
	next, called := okHandler()

	req := WithTestUser(htmlRequest("GET", "/society/abc"), &SessionUser{
		ID: "507f1f77bcf86cd799439011", Role: models.RoleAdmin, SocietyID: "abc", FirstLoginDone: true,
	})

	rec := httptest.NewRecorder()
	mw := sm.RequireRole(models.RoleSuperAdmin, models.RoleSocietyAdmin, models.RoleAdmin)
	mw(next).ServeHTTP(rec, req)

	if !*called {
		t.Error("handler should run for allowed role")
	}
}

func TestRequireRole_AnonymousGetsLogin(t *testing.T) {
	sm := newTestManager(t)
	next, _ := okHandler()

	rec := httptest.NewRecorder()
	sm.RequireRole(models.RoleSuperAdmin)(next).ServeHTTP(rec, htmlRequest("GET", "/super-admin"))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("Location = %q, want /login redirect", loc)
	}
}

func TestRequirePasswordChanged_PendingUserFunneled(t *testing.T) {
	sm := newTestManager(t)
	next, called := okHandler()

	req := WithTestUser(htmlRequest("GET", "/tenant"), &SessionUser{
		ID: "507f1f77bcf86cd799439011", Role: models.RoleTenant, FirstLoginDone: false,
	})

	rec := httptest.NewRecorder()
	sm.RequirePasswordChanged(next).ServeHTTP(rec, req)

	if *called {
		t.Error("handler must not run while first login is incomplete")
	}
	if loc := rec.Header().Get("Location"); loc != "/change-password" {
		t.Errorf("Location = %q, want /change-password", loc)
	}
}

func TestRequirePasswordChanged_CompletedUserPasses(t *testing.T) {
	sm := newTestManager(t)
	next, called := okHandler()

	req := WithTestUser(htmlRequest("GET", "/tenant"), &SessionUser{
		ID: "507f1f77bcf86cd799439011", Role: models.RoleTenant, FirstLoginDone: true,
	})

	rec := httptest.NewRecorder()
	sm.RequirePasswordChanged(next).ServeHTTP(rec, req)

	if !*called {
		t.Error("handler should run once first login is complete")
	}
}

type stubFetcher struct {
	user *SessionUser
	err  error
}

func (s *stubFetcher) FetchSessionUser(_ context.Context, _ string) (*SessionUser, error) {
	return s.user, s.err
}

func TestLoadSessionUser_UnknownIdentityStaysAnonymous(t *testing.T) {
	sm := newTestManager(t)
	sm.SetUserFetcher(&stubFetcher{user: nil})

	// Build a signed-in session cookie, then have the fetcher return no row.
	signin := httptest.NewRecorder()
	seed := httptest.NewRequest("GET", "/", nil)
	if err := sm.SignIn(signin, seed, "507f1f77bcf86cd799439011"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range signin.Result().Cookies() {
		req.AddCookie(c)
	}

	var got *SessionUser
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = CurrentUser(r)
	})

	sm.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if found || got != nil {
		t.Error("authenticated identity without a user row must resolve as signed out")
	}
}

func TestLoadSessionUser_InjectsFetchedUser(t *testing.T) {
	sm := newTestManager(t)
	want := &SessionUser{ID: "507f1f77bcf86cd799439011", Name: "Alice", Role: models.RoleSocietyAdmin, SocietyID: "a1", FirstLoginDone: true}
	sm.SetUserFetcher(&stubFetcher{user: want})

	signin := httptest.NewRecorder()
	seed := httptest.NewRequest("GET", "/", nil)
	if err := sm.SignIn(signin, seed, want.ID); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range signin.Result().Cookies() {
		req.AddCookie(c)
	}

	var got *SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})

	sm.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != want.ID || got.Role != want.Role {
		t.Errorf("CurrentUser = %+v, want %+v", got, want)
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newTestManager(t)
	sm.SetUserFetcher(&stubFetcher{user: &SessionUser{ID: "x", Role: models.RoleTenant}})

	signin := httptest.NewRecorder()
	if err := sm.SignIn(signin, httptest.NewRequest("GET", "/", nil), "x"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	out := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range signin.Result().Cookies() {
		req.AddCookie(c)
	}
	if err := sm.SignOut(out, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	// The cleared cookie must expire immediately.
	cleared := false
	for _, c := range out.Result().Cookies() {
		if c.Name == "societyhub-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be expired on sign-out")
	}
}
