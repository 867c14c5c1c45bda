// admin.go - Administrator review surface: access requests and devices
//
// Every route in here sits behind middleware.AdminMiddleware. Responses for
// missing or already-processed ids are 404 no-ops, never hard failures, so a
// double-click in the console cannot abort anything else.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-devicetrust-backend/auth"
	"go-devicetrust-backend/database"
	"go-devicetrust-backend/models"
	"go-devicetrust-backend/utils"
)

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func storeError(c *gin.Context, msg string, err error) {
	utils.GetLogger().Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

type requestView struct {
	ID             uint                 `json:"id"`
	UserID         uint                 `json:"user_id"`
	Username       string               `json:"username"`
	Fingerprint    string               `json:"fingerprint"`
	ClientMetadata string               `json:"client_metadata"`
	Status         models.RequestStatus `json:"status"`
	CreatedAt      string               `json:"created_at"`
}

func toRequestViews(requests []models.AccessRequest) []requestView {
	views := make([]requestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, requestView{
			ID:             r.ID,
			UserID:         r.UserID,
			Username:       r.User.Username,
			Fingerprint:    r.Fingerprint,
			ClientMetadata: r.ClientMetadata,
			Status:         r.Status,
			CreatedAt:      r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return views
}

// ListPendingRequests returns pending requests, optionally for one user
// (?user_id=N), newest first.
func ListPendingRequests(c *gin.Context) {
	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		userID = uint(parsed)
	}

	requests, err := auth.NewRequestQueue(database.DB).ListPending(userID)
	if err != nil {
		storeError(c, "list pending requests failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": toRequestViews(requests)})
}

// RequestHistory returns every request, terminal rows included, newest first.
func RequestHistory(c *gin.Context) {
	requests, err := auth.NewRequestQueue(database.DB).History()
	if err != nil {
		storeError(c, "request history failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": toRequestViews(requests)})
}

// PendingRequestCount backs the console notification badge.
func PendingRequestCount(c *gin.Context) {
	count, err := auth.NewRequestQueue(database.DB).PendingCount()
	if err != nil {
		storeError(c, "pending count failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": count})
}

// ApproveInput optionally labels the device created by an approval.
type ApproveInput struct {
	Label string `json:"label"`
}

// ApproveRequest approves a pending request and registers the device in one
// transaction.
func ApproveRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input ApproveInput
	_ = c.ShouldBindJSON(&input) // body is optional
	if input.Label == "" {
		input.Label = "approved device"
	}

	device, err := auth.NewRequestQueue(database.DB).Approve(id, input.Label)
	if errors.Is(err, auth.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrNotFound.Error()})
		return
	}
	if err != nil {
		storeError(c, "approve request failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request approved", "device": device})
}

// RejectRequest marks a pending request rejected. The row is kept for audit.
func RejectRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	err := auth.NewRequestQueue(database.DB).Reject(id)
	if errors.Is(err, auth.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrNotFound.Error()})
		return
	}
	if err != nil {
		storeError(c, "reject request failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request rejected"})
}

// PurgeRequest permanently deletes a request row from the history.
func PurgeRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	err := auth.NewRequestQueue(database.DB).Purge(id)
	if errors.Is(err, auth.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrNotFound.Error()})
		return
	}
	if err != nil {
		storeError(c, "purge request failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request deleted"})
}

// ListDevices returns the trusted devices of the user named by ?user_id=.
func ListDevices(c *gin.Context) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	devices, err := auth.NewTrustStore(database.DB).ListByUser(uint(userID))
	if err != nil {
		storeError(c, "list devices failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// AddDeviceInput registers a trusted device directly, outside the request
// queue.
type AddDeviceInput struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Fingerprint string `json:"fingerprint" binding:"required"`
	Label       string `json:"label" binding:"required"`
}

// AddDevice lets an administrator trust a device without a pending request.
func AddDevice(c *gin.Context) {
	var input AddDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	device, err := auth.NewTrustStore(database.DB).Add(input.UserID, input.Fingerprint, input.Label)
	if err != nil {
		storeError(c, "add device failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "device authorized", "device": device})
}

// RevokeDevice hard-deletes a trusted device. Sessions already issued from
// that device stay valid until they expire.
func RevokeDevice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	err := auth.NewTrustStore(database.DB).Revoke(id)
	if errors.Is(err, auth.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrNotFound.Error()})
		return
	}
	if err != nil {
		storeError(c, "revoke device failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device revoked"})
}
