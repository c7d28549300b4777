// Package http provides the management transport: the security middleware
// that resolves the caller's access level and the handlers that serve
// discovery and endpoint dispatch under the base path.
package http

import (
	"context"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
)

// accessLevelKey is a context key type for storing the resolved access level.
type accessLevelKey struct{}

// WithAccessLevel stores the resolved access level in the context. The
// security middleware calls this after token validation and permission
// resolution succeed.
func WithAccessLevel(ctx context.Context, level accessDomain.AccessLevel) context.Context {
	return context.WithValue(ctx, accessLevelKey{}, level)
}

// GetAccessLevel retrieves the resolved access level from the context.
// The second return is false when the middleware did not run; callers must
// treat that as no access.
func GetAccessLevel(ctx context.Context) (accessDomain.AccessLevel, bool) {
	level, ok := ctx.Value(accessLevelKey{}).(accessDomain.AccessLevel)
	return level, ok
}
