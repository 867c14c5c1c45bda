// device.go - Trusted devices, created only through admin approval

package models

import "time"

// AuthorizedDevice is a trusted (user, fingerprint) pair. Revocation is a
// hard delete; there is intentionally no uniqueness constraint on duplicate
// fingerprints for the same user.
type AuthorizedDevice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Fingerprint string    `gorm:"not null" json:"fingerprint"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
}
