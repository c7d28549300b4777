package domain

import (
	"fmt"

	apperrors "github.com/allisson/appgate/internal/errors"
)

// Reason classifies why an authorization attempt failed.
// The HTTP layer maps ReasonAccessDenied to 403 and every other reason to 401,
// because the client remediation differs: re-authenticate versus request
// elevated access.
type Reason string

const (
	// ReasonMissingAuthorization indicates the request carried no bearer token.
	ReasonMissingAuthorization Reason = "missing_authorization"

	// ReasonInvalidToken indicates the token is malformed, expired, uses an
	// unsupported algorithm, or references an unknown signing key.
	ReasonInvalidToken Reason = "invalid_token"

	// ReasonInvalidSignature indicates the token signature did not verify
	// against the platform signing keys.
	ReasonInvalidSignature Reason = "invalid_signature"

	// ReasonInvalidIssuer indicates the token issuer claim does not match the
	// expected platform issuer.
	ReasonInvalidIssuer Reason = "invalid_issuer"

	// ReasonInvalidAudience indicates the token audience claim does not include
	// the expected audience.
	ReasonInvalidAudience Reason = "invalid_audience"

	// ReasonAccessDenied indicates the token is valid but the caller's access
	// level does not permit the requested operation.
	ReasonAccessDenied Reason = "access_denied"

	// ReasonTimeout indicates an outbound verification call did not complete in
	// time. The caller cannot be verified, so access is denied.
	ReasonTimeout Reason = "timeout"

	// ReasonUnavailable indicates an outbound verification collaborator stayed
	// unavailable after bounded retries.
	ReasonUnavailable Reason = "service_unavailable"
)

// AuthorizationError is the tagged failure variant produced by token validation
// and access-level resolution. It is immutable once constructed and wraps the
// matching sentinel from the errors package so transport code can map it by
// errors.Is while security code can switch on the Reason.
type AuthorizationError struct {
	Reason  Reason
	Message string
}

// NewAuthorizationError creates an authorization error with the given reason
// and human-readable message.
func NewAuthorizationError(reason Reason, message string) *AuthorizationError {
	return &AuthorizationError{Reason: reason, Message: message}
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Unwrap maps the reason onto the shared sentinel errors. No reason ever maps
// to a grant; unknown reasons behave as unauthorized.
func (e *AuthorizationError) Unwrap() error {
	switch e.Reason {
	case ReasonAccessDenied:
		return apperrors.ErrForbidden
	case ReasonTimeout:
		return apperrors.ErrTimeout
	case ReasonUnavailable:
		return apperrors.ErrUnavailable
	default:
		return apperrors.ErrUnauthorized
	}
}
