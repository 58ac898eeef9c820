// internal/app/store/societies/societystore.go
package societystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/societyhub/internal/app/system/credentials"
	"github.com/dalemusser/societyhub/internal/app/system/txn"
	"github.com/dalemusser/societyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
)

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

var ErrDuplicateSociety = errors.New("a society with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("societies")}
}

func (s *Store) Create(ctx context.Context, soc models.Society) (models.Society, error) {
	prepared := prepare(soc)
	if _, err := s.c.InsertOne(ctx, prepared); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Society{}, ErrDuplicateSociety
		}
		return models.Society{}, err
	}
	return prepared, nil
}

func prepare(soc models.Society) models.Society {
	now := time.Now().UTC()
	soc.ID = primitive.NewObjectID()
	soc.NameCI = text.Fold(soc.Name)
	if soc.Status == "" {
		soc.Status = models.SocietyActive
	}
	soc.CreatedAt = now
	soc.UpdatedAt = now
	return soc
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Society, error) {
	var soc models.Society
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&soc)
	if err != nil {
		return models.Society{}, err
	}
	return soc, nil
}

// List returns all societies, newest first.
func (s *Store) List(ctx context.Context) ([]models.Society, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var societies []models.Society
	if err := cur.All(ctx, &societies); err != nil {
		return nil, err
	}
	return societies, nil
}

// UpdateStatus sets a society's status and refreshes UpdatedAt.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidSocietyStatus(status) {
		return errors.New(`status must be "active"|"inactive"|"suspended"`)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ExistsByNameCI checks if a society with the given case-insensitive name exists.
func (s *Store) ExistsByNameCI(ctx context.Context, nameCI string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"name_ci": nameCI}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the total number of societies.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CreateWithAdminResult reports the outcome of a society + admin creation.
type CreateWithAdminResult struct {
	Society models.Society
	Admin   models.User

	// ProvisionErr is non-nil when the society and admin records were
	// committed but the credential provisioning step failed. The admin is
	// left with a pending credential status; startup reconciliation
	// retries provisioning for such accounts.
	ProvisionErr error
}

// CreateWithAdmin inserts a society and its first society admin. The two
// record inserts run in a transaction when the server supports one, so a
// failed admin insert never leaves an adminless society behind.
//
// Credential provisioning happens after the records are committed and is not
// rolled into the transaction; a provisioning failure is reported via
// CreateWithAdminResult.ProvisionErr rather than as the returned error.
func (s *Store) CreateWithAdmin(ctx context.Context, soc models.Society, admin models.User, prov credentials.Provider, tempPassword string) (CreateWithAdminResult, error) {
	var res CreateWithAdminResult

	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		prepared := prepare(soc)
		if _, err := s.c.InsertOne(ctx, prepared); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrDuplicateSociety
			}
			return err
		}
		res.Society = prepared

		admin.Role = models.RoleSocietyAdmin
		admin.SocietyID = &prepared.ID
		created, err := userstore.CreateTx(ctx, s.db.Collection("users"), admin)
		if err != nil {
			return err
		}
		res.Admin = created
		return nil
	})
	if err != nil {
		return CreateWithAdminResult{}, err
	}

	if err := prov.CreateIdentity(ctx, res.Admin.ID, tempPassword); err != nil {
		res.ProvisionErr = err
		return res, nil
	}
	res.Admin.CredentialStatus = models.CredentialProvisioned
	return res, nil
}
