// requests.go - Access request queue with atomic deduplication

package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-devicetrust-backend/models"
)

// RequestQueue manages pending/approved/rejected device approval requests.
type RequestQueue struct {
	db *gorm.DB
}

func NewRequestQueue(db *gorm.DB) *RequestQueue {
	return &RequestQueue{db: db}
}

// Enqueue inserts a pending request unless one already exists for the same
// (user, fingerprint). Dedup rides on the partial unique index over pending
// rows, so the insert-if-absent is a single atomic statement and holds under
// concurrent attempts from the same device. Callers are not told whether the
// row was fresh or deduplicated.
func (q *RequestQueue) Enqueue(userID uint, fingerprint, metadata string) error {
	req := models.AccessRequest{
		UserID:         userID,
		Fingerprint:    fingerprint,
		ClientMetadata: metadata,
		Status:         models.StatusPending,
	}
	err := q.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req).Error
	if err != nil {
		return fmt.Errorf("request enqueue: %w", err)
	}
	return nil
}

// Approve transitions a pending request to approved and creates the trusted
// device carrying the request's fingerprint, in one transaction: neither side
// of the change can land without the other. A terminal or missing request
// yields ErrNotFound and changes nothing.
func (q *RequestQueue) Approve(requestID uint, label string) (*models.AuthorizedDevice, error) {
	var device models.AuthorizedDevice
	err := q.db.Transaction(func(tx *gorm.DB) error {
		var req models.AccessRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("request fetch: %w", err)
		}

		res := tx.Model(&models.AccessRequest{}).
			Where("id = ? AND status = ?", requestID, models.StatusPending).
			Update("status", models.StatusApproved)
		if res.Error != nil {
			return fmt.Errorf("request update: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound // already approved or rejected
		}

		device = models.AuthorizedDevice{
			UserID:      req.UserID,
			Fingerprint: req.Fingerprint,
			Label:       label,
		}
		if err := tx.Create(&device).Error; err != nil {
			return fmt.Errorf("device create: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// Reject transitions a pending request to rejected. No device is ever
// created. Terminal requests are a reported no-op (ErrNotFound).
func (q *RequestQueue) Reject(requestID uint) error {
	res := q.db.Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusRejected)
	if res.Error != nil {
		return fmt.Errorf("request update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending returns pending requests newest first, optionally filtered to
// one user (userID 0 means all users).
func (q *RequestQueue) ListPending(userID uint) ([]models.AccessRequest, error) {
	query := q.db.Preload("User").Where("status = ?", models.StatusPending)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	var requests []models.AccessRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("request list: %w", err)
	}
	return requests, nil
}

// History returns every request regardless of status, newest first.
func (q *RequestQueue) History() ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	err := q.db.Preload("User").Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("request history: %w", err)
	}
	return requests, nil
}

// PendingCount backs the admin console badge.
func (q *RequestQueue) PendingCount() (int64, error) {
	var count int64
	err := q.db.Model(&models.AccessRequest{}).
		Where("status = ?", models.StatusPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("request count: %w", err)
	}
	return count, nil
}

// Purge permanently deletes a request row, terminal or not. Used by the admin
// history cleanup; routine rejections keep the row for audit instead.
func (q *RequestQueue) Purge(requestID uint) error {
	res := q.db.Delete(&models.AccessRequest{}, requestID)
	if res.Error != nil {
		return fmt.Errorf("request delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
