// auth.go - Session authentication and admin authorization middleware
//
// Authentication: extract the bearer token, resolve it to a server-tracked
// session, load the user and store both in the request context.
//
// Authorization: on top of authentication, require the administrator role.
// Unauthorized callers always receive the same "not authorized" body.

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-devicetrust-backend/auth"
	"go-devicetrust-backend/config"
	"go-devicetrust-backend/database"
	"go-devicetrust-backend/models"
)

// Context keys set by the authentication middleware.
const (
	ContextUserKey    = "user"
	ContextSessionKey = "session_id"
)

func issuer() *auth.SessionIssuer {
	cfg := config.Load()
	return auth.NewSessionIssuer(database.DB, []byte(cfg.JWTSecret), cfg.SessionTTL())
}

// authenticate resolves the bearer token into a user and stores it in the
// context. It aborts the request itself on failure and never advances the
// handler chain, so it is safe to call from other middleware.
func authenticate(c *gin.Context) (models.User, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return models.User{}, false
	}

	session, err := issuer().Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return models.User{}, false
	}

	// The session may outlive the user (admin deletions); re-check.
	var user models.User
	if err := database.DB.First(&user, session.UserID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return models.User{}, false
	}

	c.Set(ContextUserKey, user)
	c.Set(ContextSessionKey, session.ID)
	return user, true
}

// AuthMiddleware validates the bearer token against the session store and
// loads the owning user into the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// AdminMiddleware authenticates and then requires the administrator role.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c)
		if !ok {
			return
		}
		if !user.Role.IsAdministrator() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by the middleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
