// user.go - Defines the User model and the closed role enumeration

package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is a closed enumeration. Components compare roles against these
// constants only; free-form strings caused casing drift in the past.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleStandard      Role = "standard"
)

// IsAdministrator reports whether the role carries administrative rights.
func (r Role) IsAdministrator() bool {
	return r == RoleAdministrator
}

// ParseRole normalizes and validates a role label.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdministrator:
		return RoleAdministrator, nil
	case RoleStandard:
		return RoleStandard, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"` // matched case-insensitively
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:text;not null;default:'standard'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
