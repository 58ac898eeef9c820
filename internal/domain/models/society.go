package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Society statuses.
const (
	SocietyActive    = "active"
	SocietyInactive  = "inactive"
	SocietySuspended = "suspended"
)

// ValidSocietyStatus reports whether s is a known society status.
func ValidSocietyStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SocietyActive, SocietyInactive, SocietySuspended:
		return true
	}
	return false
}

var societyStatusBadges = map[string]string{
	SocietyActive:    "badge-active",
	SocietyInactive:  "badge-inactive",
	SocietySuspended: "badge-suspended",
}

// SocietyStatusBadge returns the CSS class for a society status badge.
func SocietyStatusBadge(status string) string {
	if c, ok := societyStatusBadges[strings.ToLower(status)]; ok {
		return c
	}
	return "badge-default"
}

// Society is a managed residential community. Societies are created only by
// super admins, together with exactly one initial society admin.
type Society struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"` // active | inactive | suspended
	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
