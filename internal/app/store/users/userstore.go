package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/societyhub/internal/app/system/normalize"
	"github.com/dalemusser/societyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Collection exposes the underlying collection for transactional callers.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "super_admin"|"society_admin"|"admin"|"tenant"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errSocietyNeeded  = errors.New("society_admin/admin/tenant must have society_id")
	errSocietyForbade = errors.New("super_admin must not have society_id")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// New users start with a pending credential status until a credential
// provider writes their password hash.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	prepared, err := prepare(u)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.c.InsertOne(ctx, prepared); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return prepared, nil
}

// CreateTx inserts a new user using the given collection handle, which may be
// bound to a session for transactional callers. Validation matches Create.
func CreateTx(ctx context.Context, c *mongo.Collection, u models.User) (models.User, error) {
	prepared, err := prepare(u)
	if err != nil {
		return models.User{}, err
	}
	if _, err := c.InsertOne(ctx, prepared); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return prepared, nil
}

func prepare(u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if u.CredentialStatus == "" {
		u.CredentialStatus = models.CredentialPending
	}

	if !u.Role.Valid() {
		return models.User{}, errBadRole
	}
	if u.Status != models.UserActive && u.Status != models.UserDisabled {
		return models.User{}, errBadStatus
	}

	// SocietyID is nil exactly for super admins.
	if u.Role.SocietyScoped() && u.SocietyID == nil {
		return models.User{}, errSocietyNeeded
	}
	if !u.Role.SocietyScoped() && u.SocietyID != nil {
		return models.User{}, errSocietyForbade
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

// ListBySociety returns all users scoped to a society, newest first.
func (s *Store) ListBySociety(ctx context.Context, societyID primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"society_id": societyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListBySocietyAndRole returns a society's users of one role, newest first.
func (s *Store) ListBySocietyAndRole(ctx context.Context, societyID primitive.ObjectID, role models.Role) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"society_id": societyID, "role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListPendingCredentials returns users whose credential provisioning step
// never completed. Startup reconciliation retries these.
func (s *Store) ListPendingCredentials(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"credential_status": models.CredentialPending})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// MarkFirstLoginCompleted flips the first-login flag. The flag only moves
// from false to true, so repeated calls are harmless.
func (s *Store) MarkFirstLoginCompleted(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"first_login_completed": true,
			"updated_at":            time.Now().UTC(),
		}})
	return err
}

// UpdateStatus sets a user's status to "active" or "disabled".
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.UserActive && status != models.UserDisabled {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}})
	return err
}

// EmailExists checks if a user with the given email already exists.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// CountByRole returns the number of users with the given role.
func (s *Store) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}

// CountBySociety returns the number of users scoped to a society.
func (s *Store) CountBySociety(ctx context.Context, societyID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"society_id": societyID})
}
