package usecase

import (
	"context"
	"errors"
	"time"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	"github.com/allisson/appgate/internal/metrics"
)

// securityUseCaseWithMetrics decorates SecurityUseCase with metrics
// instrumentation.
type securityUseCaseWithMetrics struct {
	next    SecurityUseCase
	metrics metrics.BusinessMetrics
}

// NewSecurityUseCaseWithMetrics wraps a SecurityUseCase with metrics recording.
func NewSecurityUseCaseWithMetrics(useCase SecurityUseCase, m metrics.BusinessMetrics) SecurityUseCase {
	return &securityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// AccessLevelFor records outcome and duration for access resolution. The
// status label carries the resolved level on success and the failure reason
// otherwise, so dashboards can split denials from infrastructure trouble.
func (s *securityUseCaseWithMetrics) AccessLevelFor(
	ctx context.Context,
	rawToken string,
) (accessDomain.AccessLevel, error) {
	start := time.Now()
	level, err := s.next.AccessLevelFor(ctx, rawToken)

	status := level.String()
	if err != nil {
		status = "error"
		var authErr *accessDomain.AuthorizationError
		if errors.As(err, &authErr) {
			status = string(authErr.Reason)
		}
	}

	s.metrics.RecordOperation(ctx, "access", "resolve_level", status)
	s.metrics.RecordDuration(ctx, "access", "resolve_level", time.Since(start), status)

	return level, err
}
