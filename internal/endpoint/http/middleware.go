package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	accessUseCase "github.com/allisson/appgate/internal/access/usecase"
	"github.com/allisson/appgate/internal/httputil"
)

// SecurityMiddleware authenticates and authorizes every management request.
//
// It extracts the bearer token from the Authorization header (scheme matched
// case-insensitively), resolves the caller's access level through the
// security use case and stores the level in the request context. A missing or
// malformed header flows into the use case as an empty token so the response
// carries the missing_authorization reason.
//
// Failure mapping is delegated to httputil: authentication problems become
// 401 with WWW-Authenticate, denials become 403. The level stored on success
// may still be NONE; the dispatch layer decides what NONE may do (nothing).
func SecurityMiddleware(securityUseCase accessUseCase.SecurityUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := extractBearerToken(c.GetHeader("Authorization"))

		level, err := securityUseCase.AccessLevelFor(c.Request.Context(), rawToken)
		if err != nil {
			logger.Debug("access resolution failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithAccessLevel(c.Request.Context(), level)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("access resolved",
			slog.String("level", level.String()))

		c.Next()
	}
}

// extractBearerToken returns the token part of a bearer Authorization header,
// or "" when the header is absent or uses a different scheme.
func extractBearerToken(header string) string {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) ||
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}
