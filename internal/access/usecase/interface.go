// Package usecase implements the access decision pipeline: validate the
// caller's bearer token, then resolve the caller's access level from the
// platform permission-check API. The pipeline fails closed; any failure it
// cannot classify ends in an authorization error, never in elevated access.
package usecase

import (
	"context"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
)

// SecurityUseCase resolves the access level for an inbound request.
type SecurityUseCase interface {
	// AccessLevelFor validates rawToken and resolves the caller's access
	// level. It returns AccessLevelNone with a nil error when the configured
	// application does not exist on the platform; every other failure is
	// reported as *domain.AuthorizationError.
	AccessLevelFor(ctx context.Context, rawToken string) (accessDomain.AccessLevel, error)
}
