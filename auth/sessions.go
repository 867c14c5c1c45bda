// sessions.go - Server-tracked session issuing and validation

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-devicetrust-backend/models"
)

// SessionIssuer creates and validates sessions. Each session is a database
// row with an absolute expiry plus a signed bearer token carrying the session
// id, so tokens can be invalidated server-side (logout) without waiting for
// the JWT to expire.
type SessionIssuer struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewSessionIssuer(db *gorm.DB, secret []byte, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{db: db, secret: secret, ttl: ttl}
}

// Issue creates a session bound to the identity and returns the signed token.
// The fingerprint is stamped on the row for future re-validation policies;
// device revocation does not consult it today.
func (s *SessionIssuer) Issue(identity *Identity, fingerprint string) (string, error) {
	session := models.Session{
		ID:          uuid.NewString(),
		UserID:      identity.ID,
		Role:        identity.Role,
		Fingerprint: fingerprint,
		ExpiresAt:   time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":     session.ID,
		"user_id": identity.ID,
		"exp":     session.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("session sign: %w", err)
	}
	return signed, nil
}

// Validate parses a bearer token and resolves the session row behind it.
// Expired rows are treated as invalid, not deleted; cleanup is a separate
// concern.
func (s *SessionIssuer) Validate(tokenStr string) (*models.Session, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrSessionInvalid
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return nil, ErrSessionInvalid
	}

	var session models.Session
	if err := s.db.First(&session, "id = ?", sid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionInvalid
	}
	return &session, nil
}

// Revoke deletes a session row, ending it immediately.
func (s *SessionIssuer) Revoke(sessionID string) error {
	res := s.db.Delete(&models.Session{}, "id = ?", sessionID)
	if res.Error != nil {
		return fmt.Errorf("session delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
