// Package authutil handles password hashing, validation, and temporary
// password generation.
package authutil

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var (
	// ErrPasswordMismatch is returned when the confirmation field differs.
	ErrPasswordMismatch = errors.New("New passwords do not match")
	// ErrPasswordTooShort is returned for passwords under the minimum length.
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
)

// ValidatePassword checks the local password rules. Both checks run before
// any network call so the user gets immediate inline feedback.
func ValidatePassword(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// PasswordRules describes the password requirements for display in forms.
func PasswordRules() string {
	return "Password must be at least 6 characters long."
}

// HashPassword bcrypt-hashes a password at the default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateTempPassword produces a random temporary password for newly
// provisioned accounts. The operator delivers it to the user out of band.
func GenerateTempPassword() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return raw[:12]
}
