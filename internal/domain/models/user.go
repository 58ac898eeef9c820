package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Credential provisioning states. A user is created as part of a multi-step
// sequence (row insert, then credential provisioning); the row is "pending"
// until a password hash has been written.
const (
	CredentialPending     = "pending"
	CredentialProvisioned = "provisioned"
)

// User statuses.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// User represents every account in the system: super admins, society admins,
// unit admins, and tenants.
//
// Invariant: SocietyID is nil if and only if Role is super_admin. The user
// store enforces this on create.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`

	Role      Role                `bson:"role" json:"role"`
	SocietyID *primitive.ObjectID `bson:"society_id,omitempty" json:"society_id,omitempty"`

	// CreatedByID is the provisioning user: a super admin for society admins,
	// a society/unit admin for residents. Nil for the seeded super admin.
	CreatedByID *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`

	PasswordHash     string `bson:"password_hash,omitempty" json:"-"`
	CredentialStatus string `bson:"credential_status" json:"-"` // pending | provisioned

	// FirstLoginCompleted starts false and flips true exactly once, when the
	// user replaces their provisioned temporary password.
	FirstLoginCompleted bool `bson:"first_login_completed" json:"first_login_completed"`

	Status string `bson:"status" json:"status"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SocietyHex returns the society ID as a hex string, or "" for super admins.
func (u *User) SocietyHex() string {
	if u.SocietyID == nil {
		return ""
	}
	return u.SocietyID.Hex()
}
