// auth.go - Handles login, logout and session introspection

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-devicetrust-backend/auth"
	"go-devicetrust-backend/config"
	"go-devicetrust-backend/database"
	"go-devicetrust-backend/middleware"
	"go-devicetrust-backend/utils"
)

// LoginInput carries one login attempt. The fingerprint is an opaque string
// computed client-side; the server only requires it to be non-empty.
type LoginInput struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Fingerprint string `json:"fingerprint" binding:"required"`
}

func sessionIssuer() *auth.SessionIssuer {
	cfg := config.Load()
	return auth.NewSessionIssuer(database.DB, []byte(cfg.JWTSecret), cfg.SessionTTL())
}

// Login runs the authorization gate and maps its decision onto HTTP:
// 200 Allow with a session token, 401 Deny with a generic message,
// 202 Pending when the device awaits administrator approval.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gate := auth.NewGate(database.DB, sessionIssuer())
	result, err := gate.Authenticate(input.Username, input.Password, input.Fingerprint, c.GetHeader("User-Agent"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"token":    result.Token,
			"username": result.Identity.Username,
			"role":     result.Identity.Role,
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrApprovalPending):
		c.JSON(http.StatusAccepted, gin.H{"message": auth.ErrApprovalPending.Error()})
	case errors.Is(err, auth.ErrFingerprintRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrFingerprintRequired.Error()})
	default:
		// Store failure: log the cause, answer generically. A single failed
		// login must not take the process down.
		utils.GetLogger().Error("login failed", zap.String("username", input.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Logout deletes the caller's server-tracked session.
func Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionKey)
	if err := sessionIssuer().Revoke(sessionID); err != nil && !errors.Is(err, auth.ErrNotFound) {
		utils.GetLogger().Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated identity behind the presented token.
func Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}
