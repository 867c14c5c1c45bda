// errors.go - Error taxonomy for the authorization gate
//
// User-facing failures are deliberately generic: a failed login never reveals
// whether the username exists, and a pending device never reveals whether the
// request was fresh or a duplicate.

package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrApprovalPending means the device is not trusted and a request is now
	// on file (created by this attempt or an earlier one).
	ErrApprovalPending = errors.New("device not recognized, access request submitted")

	// ErrFingerprintRequired rejects an empty device fingerprint. No other
	// structural validation is performed on it.
	ErrFingerprintRequired = errors.New("device fingerprint is required")

	// ErrNotFound reports operating on a missing or already-processed
	// request/device. It is a no-op, never a fatal condition.
	ErrNotFound = errors.New("not found or already processed")

	// ErrSessionInvalid covers unknown, expired and revoked sessions.
	ErrSessionInvalid = errors.New("session is invalid or expired")
)
