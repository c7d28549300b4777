// Package service provides the outbound collaborators of the access module:
// token validation against the platform UAA and permission lookup against the
// cloud controller. All operations honor the caller's context so an aborted
// request cancels the in-flight outbound call.
package service

import (
	"context"
	"crypto/rsa"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
)

// TokenValidator checks the structural and cryptographic validity of a bearer
// token. Implementations report failures as *domain.AuthorizationError with a
// reason describing what to fix (re-authenticate versus configuration).
type TokenValidator interface {
	// Validate returns nil when the token is well formed, carries a valid
	// signature from a known platform key, and matches the expected issuer and
	// audience. The call may suspend while signing keys are fetched; it is
	// safe to retry and safe to call concurrently.
	Validate(ctx context.Context, rawToken string) error
}

// KeySource resolves token signing keys by key id.
type KeySource interface {
	// PublicKey returns the RSA public key for the given key id, fetching and
	// caching key material from the platform as needed.
	PublicKey(ctx context.Context, keyID string) (*rsa.PublicKey, error)
}

// PermissionsClient queries the platform permission-check API.
type PermissionsClient interface {
	// AppPermissions returns the caller's permission summary for the given
	// application. It fails with ErrNotFound when the application does not
	// exist, which resolves to AccessLevelNone rather than an error response.
	AppPermissions(ctx context.Context, applicationID, rawToken string) (accessDomain.Permissions, error)
}
