// access_request.go - Device approval requests awaiting administrator review

package models

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// AccessRequest records an untrusted-device login attempt. The partial unique
// index keeps at most one pending row per (user, fingerprint); approved and
// rejected rows are terminal and retained for audit.
type AccessRequest struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"not null;index;uniqueIndex:uniq_pending_request,where:status = 'pending'" json:"user_id"`
	User           User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Fingerprint    string        `gorm:"not null;uniqueIndex:uniq_pending_request,where:status = 'pending'" json:"fingerprint"`
	ClientMetadata string        `json:"client_metadata"`
	Status         RequestStatus `gorm:"type:text;not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}
