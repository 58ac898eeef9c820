package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/societyhub/internal/app/system/authutil"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSociety creates a test society with the given name.
// Returns the created society with its generated ID.
func (f *Fixtures) CreateSociety(ctx context.Context, name string) models.Society {
	f.t.Helper()

	now := time.Now().UTC()
	soc := models.Society{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test society",
		Status:      models.SocietyActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("societies").InsertOne(ctx, soc)
	if err != nil {
		f.t.Fatalf("failed to create test society: %v", err)
	}

	return soc
}

// CreateUser creates a test user with the given parameters. Society-scoped
// roles need societyID; pass nil for super admins. The user is created with a
// provisioned credential and the first login already completed.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, role models.Role, societyID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:                  primitive.NewObjectID(),
		Email:               email,
		EmailCI:             text.Fold(email),
		FullName:            fullName,
		FullNameCI:          text.Fold(fullName),
		Role:                role,
		SocietyID:           societyID,
		PasswordHash:        "$2a$10$fixture.fixture.fixture.fixture.fixture.fixture.fixtu",
		CredentialStatus:    models.CredentialProvisioned,
		FirstLoginCompleted: true,
		Status:              models.UserActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateUserWithPassword creates a user who can actually sign in with the
// given password. firstLoginDone=false models a freshly provisioned account
// still on its temporary password.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, fullName, email string, role models.Role, societyID *primitive.ObjectID, password string, firstLoginDone bool) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:                  primitive.NewObjectID(),
		Email:               email,
		EmailCI:             text.Fold(email),
		FullName:            fullName,
		FullNameCI:          text.Fold(fullName),
		Role:                role,
		SocietyID:           societyID,
		PasswordHash:        hash,
		CredentialStatus:    models.CredentialProvisioned,
		FirstLoginCompleted: firstLoginDone,
		Status:              models.UserActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreatePendingUser creates a user whose credential provisioning never
// completed, for exercising startup reconciliation.
func (f *Fixtures) CreatePendingUser(ctx context.Context, fullName, email string, role models.Role, societyID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:               primitive.NewObjectID(),
		Email:            email,
		EmailCI:          text.Fold(email),
		FullName:         fullName,
		FullNameCI:       text.Fold(fullName),
		Role:             role,
		SocietyID:        societyID,
		CredentialStatus: models.CredentialPending,
		Status:           models.UserActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}
