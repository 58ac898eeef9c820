// Package credentials provisions login credentials for user accounts.
//
// Account records and login credentials are written in separate steps:
// creating a user inserts a record with a pending credential status, and a
// Provider is then asked to provision the actual credential. The two steps
// are not atomic. A provisioning failure leaves the account visible with a
// pending status, and startup reconciliation retries provisioning for any
// accounts left pending.
package credentials

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/societyhub/internal/app/system/authutil"
	"github.com/dalemusser/societyhub/internal/domain/models"
)

// ErrIdentityNotFound is returned when the target account does not exist.
var ErrIdentityNotFound = errors.New("credentials: identity not found")

// Provider provisions and updates login credentials for accounts.
type Provider interface {
	// CreateIdentity provisions a login credential for a newly created
	// account and marks it ready for sign-in.
	CreateIdentity(ctx context.Context, userID primitive.ObjectID, password string) error

	// UpdateCredential replaces the credential for an existing account.
	UpdateCredential(ctx context.Context, userID primitive.ObjectID, newPassword string) error
}

// MongoProvider stores bcrypt password hashes on the users collection.
type MongoProvider struct {
	users *mongo.Collection
}

// NewMongoProvider creates a Provider backed by the users collection of db.
func NewMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{users: db.Collection("users")}
}

// CreateIdentity hashes the password and marks the account provisioned.
func (p *MongoProvider) CreateIdentity(ctx context.Context, userID primitive.ObjectID, password string) error {
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return err
	}

	res, err := p.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"password_hash":     hash,
			"credential_status": models.CredentialProvisioned,
			"updated_at":        time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// UpdateCredential replaces the stored password hash for an account.
func (p *MongoProvider) UpdateCredential(ctx context.Context, userID primitive.ObjectID, newPassword string) error {
	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := p.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"password_hash": hash,
			"updated_at":    time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrIdentityNotFound
	}
	return nil
}
