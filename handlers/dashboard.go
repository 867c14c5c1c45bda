// dashboard.go - Aggregated counters for the administrator console

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-devicetrust-backend/auth"
	"go-devicetrust-backend/database"
	"go-devicetrust-backend/models"
)

type roleCount struct {
	Role  models.Role `json:"role"`
	Count int64       `json:"count"`
}

// DashboardData returns the console overview: totals, a per-role breakdown
// and the five most recent access requests.
func DashboardData(c *gin.Context) {
	db := database.DB

	var totalUsers, totalDevices int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		storeError(c, "dashboard user count failed", err)
		return
	}
	if err := db.Model(&models.AuthorizedDevice{}).Count(&totalDevices).Error; err != nil {
		storeError(c, "dashboard device count failed", err)
		return
	}

	pending, err := auth.NewRequestQueue(db).PendingCount()
	if err != nil {
		storeError(c, "dashboard pending count failed", err)
		return
	}

	var roles []roleCount
	if err := db.Model(&models.User{}).
		Select("role, COUNT(id) as count").
		Group("role").
		Scan(&roles).Error; err != nil {
		storeError(c, "dashboard role breakdown failed", err)
		return
	}

	var recent []models.AccessRequest
	if err := db.Preload("User").Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		storeError(c, "dashboard recent activity failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":      totalUsers,
		"total_devices":    totalDevices,
		"pending_requests": pending,
		"users_by_role":    roles,
		"recent_activity":  toRequestViews(recent),
	})
}
