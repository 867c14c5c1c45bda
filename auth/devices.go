// devices.go - Trusted device store

package auth

import (
	"fmt"

	"gorm.io/gorm"

	"go-devicetrust-backend/models"
)

// TrustStore holds the trusted (user, fingerprint) pairs. Mutation is
// admin-only; the role check lives at the HTTP boundary.
type TrustStore struct {
	db *gorm.DB
}

func NewTrustStore(db *gorm.DB) *TrustStore {
	return &TrustStore{db: db}
}

// IsTrusted reports whether the pair is present in the device table.
func (s *TrustStore) IsTrusted(userID uint, fingerprint string) (bool, error) {
	var count int64
	err := s.db.Model(&models.AuthorizedDevice{}).
		Where("user_id = ? AND fingerprint = ?", userID, fingerprint).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("device lookup: %w", err)
	}
	return count > 0, nil
}

// Add registers a trusted device. Duplicate fingerprints for the same user
// are not rejected here; that matches the observed admin workflow.
func (s *TrustStore) Add(userID uint, fingerprint, label string) (*models.AuthorizedDevice, error) {
	device := models.AuthorizedDevice{
		UserID:      userID,
		Fingerprint: fingerprint,
		Label:       label,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return nil, fmt.Errorf("device create: %w", err)
	}
	return &device, nil
}

// Revoke hard-deletes a device. There is no soft delete and no audit trail
// for devices; revocation history lives only in the access request table.
func (s *TrustStore) Revoke(deviceID uint) error {
	res := s.db.Delete(&models.AuthorizedDevice{}, deviceID)
	if res.Error != nil {
		return fmt.Errorf("device delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns a user's trusted devices, newest first.
func (s *TrustStore) ListByUser(userID uint) ([]models.AuthorizedDevice, error) {
	var devices []models.AuthorizedDevice
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("device list: %w", err)
	}
	return devices, nil
}
