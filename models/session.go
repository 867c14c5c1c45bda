// session.go - Server-tracked login sessions

package models

import "time"

// Session is the server-side record behind a bearer token. Expiry is
// absolute. Fingerprint stamps the device the session was issued against;
// revoking that device does not invalidate the session (known gap, kept as
// observed behavior).
type Session struct {
	ID          string    `gorm:"primaryKey;size:64"` // UUID
	UserID      uint      `gorm:"index;not null"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role        Role      `gorm:"type:text;not null"`
	Fingerprint string
	ExpiresAt   time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
}
