package usecase

import (
	"context"
	"log/slog"
	"time"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	"github.com/allisson/appgate/internal/access/service"
	apperrors "github.com/allisson/appgate/internal/errors"
)

// securityUseCase implements SecurityUseCase on top of a token validator and
// a permissions client. Calls to either collaborator are retried a bounded
// number of times, and only when the collaborator reported transient
// unavailability.
type securityUseCase struct {
	validator     service.TokenValidator
	permissions   service.PermissionsClient
	applicationID string
	maxRetries    int
	retryBackoff  time.Duration
}

// AccessLevelFor validates the token and resolves the caller's access level.
//
// Every request runs the full pipeline; access decisions are never cached, so
// a permission change on the platform takes effect on the next request.
func (s *securityUseCase) AccessLevelFor(
	ctx context.Context,
	rawToken string,
) (accessDomain.AccessLevel, error) {
	if err := s.validateToken(ctx, rawToken); err != nil {
		return accessDomain.AccessLevelNone, err
	}

	permissions, err := s.resolvePermissions(ctx, rawToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// The application is unknown to the platform. This is a valid
			// answer, not a failure: the caller simply gets no access.
			slog.Warn("application not found, resolving to no access",
				"application_id", s.applicationID)
			return accessDomain.AccessLevelNone, nil
		}
		return accessDomain.AccessLevelNone, err
	}

	return permissions.AccessLevel(), nil
}

// validateToken validates the bearer token, retrying transient failures from
// the token infrastructure (such as an unavailable key endpoint) with a fixed
// backoff. Invalid tokens and other definitive answers are never retried.
func (s *securityUseCase) validateToken(ctx context.Context, rawToken string) error {
	for attempt := 0; ; attempt++ {
		err := s.validator.Validate(ctx, rawToken)
		if err == nil || !apperrors.Is(err, apperrors.ErrUnavailable) || attempt >= s.maxRetries {
			return err
		}

		slog.Warn("token validation unavailable, retrying",
			"attempt", attempt+1,
			"max_retries", s.maxRetries,
		)

		select {
		case <-ctx.Done():
			return accessDomain.NewAuthorizationError(
				accessDomain.ReasonTimeout,
				"token validation aborted while waiting to retry",
			)
		case <-time.After(s.retryBackoff):
		}
	}
}

// resolvePermissions calls the permission API, retrying transient failures
// with a fixed backoff. The caller's context bounds the whole attempt chain.
func (s *securityUseCase) resolvePermissions(
	ctx context.Context,
	rawToken string,
) (accessDomain.Permissions, error) {
	var permissions accessDomain.Permissions
	var err error

	for attempt := 0; ; attempt++ {
		permissions, err = s.permissions.AppPermissions(ctx, s.applicationID, rawToken)
		if err == nil || !apperrors.Is(err, apperrors.ErrUnavailable) || attempt >= s.maxRetries {
			return permissions, err
		}

		slog.Warn("permission lookup unavailable, retrying",
			"attempt", attempt+1,
			"max_retries", s.maxRetries,
		)

		select {
		case <-ctx.Done():
			return permissions, accessDomain.NewAuthorizationError(
				accessDomain.ReasonTimeout,
				"permission lookup aborted while waiting to retry",
			)
		case <-time.After(s.retryBackoff):
		}
	}
}

// NewSecurityUseCase creates the access decision pipeline for the given
// application.
func NewSecurityUseCase(
	validator service.TokenValidator,
	permissions service.PermissionsClient,
	applicationID string,
	maxRetries int,
	retryBackoff time.Duration,
) SecurityUseCase {
	return &securityUseCase{
		validator:     validator,
		permissions:   permissions,
		applicationID: applicationID,
		maxRetries:    maxRetries,
		retryBackoff:  retryBackoff,
	}
}
