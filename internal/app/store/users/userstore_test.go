package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/societyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_SuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName: "Root Admin",
		Email:    "Root@Example.com",
		Role:     models.RoleSuperAdmin,
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "root@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.EmailCI == "" {
		t.Error("expected EmailCI to be set")
	}
	if created.Status != models.UserActive {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
	if created.CredentialStatus != models.CredentialPending {
		t.Errorf("expected pending credential status, got %q", created.CredentialStatus)
	}
	if created.FirstLoginCompleted {
		t.Error("new users must not start with first login completed")
	}
	if created.SocietyID != nil {
		t.Error("super admin should not have society_id")
	}
}

func TestStore_Create_Tenant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	soc := fixtures.CreateSociety(ctx, "Maple Court")

	user := models.User{
		FullName:  "Tenant User",
		Email:     "tenant@example.com",
		Role:      models.RoleTenant,
		SocietyID: &soc.ID,
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.SocietyID == nil || *created.SocietyID != soc.ID {
		t.Errorf("SocietyID: got %v, want %v", created.SocietyID, soc.ID)
	}
}

func TestStore_Create_SocietyScopedWithoutSociety(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, role := range []models.Role{models.RoleSocietyAdmin, models.RoleAdmin, models.RoleTenant} {
		_, err := store.Create(ctx, models.User{
			FullName: "No Society",
			Email:    "nosoc-" + string(role) + "@example.com",
			Role:     role,
		})
		if err == nil {
			t.Errorf("expected error creating %s without society", role)
		}
	}
}

func TestStore_Create_SuperAdminWithSociety(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	soc := fixtures.CreateSociety(ctx, "Maple Court")

	_, err := store.Create(ctx, models.User{
		FullName:  "Scoped Root",
		Email:     "root@example.com",
		Role:      models.RoleSuperAdmin,
		SocietyID: &soc.ID,
	})
	if err == nil {
		t.Fatal("expected error creating super admin with society_id")
	}
}

func TestStore_Create_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "Bad Role",
		Email:    "bad@example.com",
		Role:     models.Role("overlord"),
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestStore_GetByEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Case User", "case@example.com", models.RoleSuperAdmin, nil)

	got, err := store.GetByEmail(ctx, "CASE@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.FullName != "Case User" {
		t.Errorf("FullName: got %q", got.FullName)
	}

	if _, err := store.GetByEmail(ctx, "missing@example.com"); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for unknown email, got %v", err)
	}
}

func TestStore_ListBySociety_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	soc := fixtures.CreateSociety(ctx, "Maple Court")
	other := fixtures.CreateSociety(ctx, "Oak Villas")

	fixtures.CreateUser(ctx, "First", "first@example.com", models.RoleTenant, &soc.ID)
	fixtures.CreateUser(ctx, "Other", "other@example.com", models.RoleTenant, &other.ID)

	// Create the second member via the store so it gets a later timestamp.
	if _, err := store.Create(ctx, models.User{
		FullName:  "Second",
		Email:     "second@example.com",
		Role:      models.RoleAdmin,
		SocietyID: &soc.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	users, err := store.ListBySociety(ctx, soc.ID)
	if err != nil {
		t.Fatalf("ListBySociety failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].FullName != "Second" {
		t.Errorf("expected newest first, got %q first", users[0].FullName)
	}
}

func TestStore_MarkFirstLoginCompleted_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreatePendingUser(ctx, "Newbie", "newbie@example.com", models.RoleSuperAdmin, nil)

	for i := 0; i < 2; i++ {
		if err := store.MarkFirstLoginCompleted(ctx, user.ID); err != nil {
			t.Fatalf("MarkFirstLoginCompleted (call %d) failed: %v", i+1, err)
		}
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.FirstLoginCompleted {
		t.Error("expected first_login_completed to be true")
	}
}

func TestStore_ListPendingCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	soc := fixtures.CreateSociety(ctx, "Maple Court")
	fixtures.CreateUser(ctx, "Done", "done@example.com", models.RoleTenant, &soc.ID)
	pending := fixtures.CreatePendingUser(ctx, "Stuck", "stuck@example.com", models.RoleTenant, &soc.ID)

	got, err := store.ListPendingCredentials(ctx)
	if err != nil {
		t.Fatalf("ListPendingCredentials failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 pending user, got %d", len(got))
	}
	if got[0].ID != pending.ID {
		t.Errorf("pending user: got %s, want %s", got[0].ID.Hex(), pending.ID.Hex())
	}
}

func TestFetcher_FetchSessionUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	soc := fixtures.CreateSociety(ctx, "Maple Court")
	user := fixtures.CreateUser(ctx, "Session User", "session@example.com", models.RoleAdmin, &soc.ID)

	su, err := fetcher.FetchSessionUser(ctx, user.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su == nil {
		t.Fatal("expected a session user")
	}
	if su.Role != models.RoleAdmin {
		t.Errorf("Role: got %q", su.Role)
	}
	if su.SocietyID != soc.ID.Hex() {
		t.Errorf("SocietyID: got %q", su.SocietyID)
	}
	if !su.FirstLoginDone {
		t.Error("expected FirstLoginDone from fixture")
	}

	// Malformed and unknown IDs resolve to signed out, not errors.
	if su, err := fetcher.FetchSessionUser(ctx, "not-an-id"); err != nil || su != nil {
		t.Errorf("malformed ID: got (%v, %v), want (nil, nil)", su, err)
	}
	if su, err := fetcher.FetchSessionUser(ctx, primitive.NewObjectID().Hex()); err != nil || su != nil {
		t.Errorf("unknown ID: got (%v, %v), want (nil, nil)", su, err)
	}
}

func TestFetcher_DisabledUserIsSignedOut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Disabled User", "disabled@example.com", models.RoleSuperAdmin, nil)
	if err := store.UpdateStatus(ctx, user.ID, models.UserDisabled); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	su, err := fetcher.FetchSessionUser(ctx, user.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su != nil {
		t.Error("disabled users must resolve to signed out")
	}
}
