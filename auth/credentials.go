// credentials.go - Username/password verification

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-devicetrust-backend/models"
)

// Identity is the authenticated principal returned on a successful
// credential check.
type Identity struct {
	ID       uint
	Username string
	Role     models.Role
}

// CredentialVerifier checks a username/password pair against the users table.
type CredentialVerifier struct {
	db *gorm.DB
}

func NewCredentialVerifier(db *gorm.DB) *CredentialVerifier {
	return &CredentialVerifier{db: db}
}

// Verify matches the username case-insensitively and compares the password
// against the stored bcrypt hash. Both failure modes return the same
// ErrInvalidCredentials.
func (v *CredentialVerifier) Verify(username, password string) (*Identity, error) {
	var user models.User
	err := v.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("credential lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}
