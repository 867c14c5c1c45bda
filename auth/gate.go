// gate.go - The login decision state machine
//
// Flow: verify credentials -> administrator bypass -> device trust check ->
// Allow / Pending / Deny.

package auth

import (
	"strings"

	"gorm.io/gorm"
)

// Result is returned only on an Allow decision. Pending and Deny surface as
// ErrApprovalPending and ErrInvalidCredentials respectively.
type Result struct {
	Identity *Identity
	Token    string
}

// Gate combines credential verification and device trust into a single login
// decision.
//
// Administrators bypass the device check entirely. This asymmetry is carried
// over from the system being replaced; removing it is a product decision, not
// a code cleanup.
type Gate struct {
	credentials *CredentialVerifier
	devices     *TrustStore
	requests    *RequestQueue
	sessions    *SessionIssuer
}

func NewGate(db *gorm.DB, sessions *SessionIssuer) *Gate {
	return &Gate{
		credentials: NewCredentialVerifier(db),
		devices:     NewTrustStore(db),
		requests:    NewRequestQueue(db),
		sessions:    sessions,
	}
}

// Authenticate runs the full gate for one login attempt. metadata is the
// client's user-agent string, recorded on any access request this attempt
// creates.
//
// Error mapping for callers:
//   - ErrInvalidCredentials: deny, generic message
//   - ErrFingerprintRequired: malformed attempt
//   - ErrApprovalPending: device untrusted, a pending request is on file
//   - anything else: store failure, surface as a generic server error
func (g *Gate) Authenticate(username, password, fingerprint, metadata string) (*Result, error) {
	if strings.TrimSpace(fingerprint) == "" {
		return nil, ErrFingerprintRequired
	}

	identity, err := g.credentials.Verify(username, password)
	if err != nil {
		return nil, err
	}

	allow := identity.Role.IsAdministrator()
	if !allow {
		trusted, err := g.devices.IsTrusted(identity.ID, fingerprint)
		if err != nil {
			return nil, err
		}
		allow = trusted
	}

	if !allow {
		if err := g.requests.Enqueue(identity.ID, fingerprint, metadata); err != nil {
			return nil, err
		}
		// Pending whether the request was fresh or already existed.
		return nil, ErrApprovalPending
	}

	token, err := g.sessions.Issue(identity, fingerprint)
	if err != nil {
		return nil, err
	}
	return &Result{Identity: identity, Token: token}, nil
}
