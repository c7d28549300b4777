package service

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	apperrors "github.com/allisson/appgate/internal/errors"
)

// signingAlgorithm is the only token algorithm the platform issues.
const signingAlgorithm = "RS256"

// uaaTokenValidator validates bearer tokens against platform signing keys and
// the configured issuer and audience.
type uaaTokenValidator struct {
	keys     KeySource
	issuer   string
	audience string
}

// NewUAATokenValidator creates a validator that resolves signing keys through
// the given source. Issuer and audience checks are skipped when the expected
// value is empty.
func NewUAATokenValidator(keys KeySource, issuer, audience string) TokenValidator {
	return &uaaTokenValidator{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
	}
}

// Validate checks the token structurally, cryptographically and against the
// expected issuer and audience, in that order. The key lookup may suspend on
// an outbound call; everything else is local computation.
func (v *uaaTokenValidator) Validate(ctx context.Context, rawToken string) error {
	token, err := accessDomain.ParseToken(rawToken)
	if err != nil {
		return err
	}

	if !strings.EqualFold(token.Algorithm, signingAlgorithm) {
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonInvalidToken,
			"token algorithm "+token.Algorithm+" is not supported",
		)
	}

	key, err := v.keys.PublicKey(ctx, token.KeyID)
	if err != nil {
		return err
	}

	parsed, err := jwt.Parse(
		rawToken,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{signingAlgorithm}),
	)
	if err != nil {
		return classifyJWTError(err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonInvalidToken,
			"token claims are not a JSON object",
		)
	}

	// Issuer and audience are checked here instead of via parser options so
	// each failure keeps its own reason.
	if v.issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != v.issuer {
			return accessDomain.NewAuthorizationError(
				accessDomain.ReasonInvalidIssuer,
				"token issuer does not match the platform issuer",
			)
		}
	}

	if v.audience != "" {
		audience, err := claims.GetAudience()
		if err != nil {
			return accessDomain.NewAuthorizationError(
				accessDomain.ReasonInvalidAudience,
				"token audience claim is malformed",
			)
		}
		if !containsAudience(audience, v.audience) {
			return accessDomain.NewAuthorizationError(
				accessDomain.ReasonInvalidAudience,
				"token audience does not include "+v.audience,
			)
		}
	}

	return nil
}

// classifyJWTError maps jwt parse failures onto authorization reasons.
// Signature failures keep their own reason; every other failure means the
// token itself is unusable and the caller must re-authenticate.
func classifyJWTError(err error) error {
	switch {
	case apperrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonInvalidSignature,
			"token signature does not verify",
		)
	case apperrors.Is(err, jwt.ErrTokenExpired):
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonInvalidToken,
			"token has expired",
		)
	case apperrors.Is(err, jwt.ErrTokenNotValidYet), apperrors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonInvalidToken,
			"token is not valid yet",
		)
	default:
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonInvalidToken,
			"token could not be parsed",
		)
	}
}

func containsAudience(audience jwt.ClaimStrings, expected string) bool {
	for _, entry := range audience {
		if entry == expected {
			return true
		}
	}
	return false
}
