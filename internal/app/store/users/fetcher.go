package userstore

import (
	"context"

	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/app/system/timeouts"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request,
// so role changes, disabled accounts, and the first-login flag take effect
// without waiting for the cookie to expire.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchSessionUser retrieves a user by ID. It returns (nil, nil) if the ID is
// malformed, the user does not exist, or the account is disabled; those
// identities are treated as signed out. This implements auth.UserFetcher.
func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":                   1,
		"full_name":             1,
		"email":                 1,
		"role":                  1,
		"status":                1,
		"society_id":            1,
		"first_login_completed": 1,
	})

	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	if u.Status == models.UserDisabled {
		return nil, nil
	}

	return &auth.SessionUser{
		ID:             u.ID.Hex(),
		Name:           u.FullName,
		Email:          u.Email,
		Role:           u.Role,
		SocietyID:      u.SocietyHex(),
		FirstLoginDone: u.FirstLoginCompleted,
	}, nil
}
