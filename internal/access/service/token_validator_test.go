package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
)

const (
	testIssuer   = "https://uaa.example.com/oauth/token"
	testAudience = "appgate"
)

func TestUAATokenValidatorValidate(t *testing.T) {
	key := generateKey(t)
	server, _ := newUAAServer(t, map[string]string{"key-1": publicKeyPEM(t, key)})
	store := NewUAAKeyStore(server.Client(), server.URL, time.Minute, time.Second)
	validator := NewUAATokenValidator(store, testIssuer, testAudience)

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, key, "key-1", defaultClaims())
		assert.NoError(t, validator.Validate(context.Background(), token))
	})

	t.Run("valid token without kid resolves against single key", func(t *testing.T) {
		token := signToken(t, key, "", defaultClaims())
		assert.NoError(t, validator.Validate(context.Background(), token))
	})

	t.Run("forged signature", func(t *testing.T) {
		otherKey := generateKey(t)
		token := signToken(t, otherKey, "key-1", defaultClaims())

		assertReason(t, validator.Validate(context.Background(), token), accessDomain.ReasonInvalidSignature)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := defaultClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		token := signToken(t, key, "key-1", claims)

		assertReason(t, validator.Validate(context.Background(), token), accessDomain.ReasonInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := defaultClaims()
		claims["iss"] = "https://evil.example.com"
		token := signToken(t, key, "key-1", claims)

		assertReason(t, validator.Validate(context.Background(), token), accessDomain.ReasonInvalidIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := defaultClaims()
		claims["aud"] = []string{"something-else"}
		token := signToken(t, key, "key-1", claims)

		assertReason(t, validator.Validate(context.Background(), token), accessDomain.ReasonInvalidAudience)
	})

	t.Run("missing token", func(t *testing.T) {
		assertReason(t, validator.Validate(context.Background(), ""), accessDomain.ReasonMissingAuthorization)
	})

	t.Run("malformed token", func(t *testing.T) {
		assertReason(t, validator.Validate(context.Background(), "not-a-token"), accessDomain.ReasonInvalidToken)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, defaultClaims())
		signed, err := hmacToken.SignedString([]byte("secret"))
		require.NoError(t, err)

		assertReason(t, validator.Validate(context.Background(), signed), accessDomain.ReasonInvalidToken)
	})

	t.Run("unknown signing key", func(t *testing.T) {
		token := signToken(t, key, "key-unknown", defaultClaims())

		assertReason(t, validator.Validate(context.Background(), token), accessDomain.ReasonInvalidToken)
	})
}

func TestUAATokenValidatorSkipsEmptyExpectations(t *testing.T) {
	key := generateKey(t)
	server, _ := newUAAServer(t, map[string]string{"key-1": publicKeyPEM(t, key)})
	store := NewUAAKeyStore(server.Client(), server.URL, time.Minute, time.Second)

	// no issuer/audience configured: only structure and signature are checked
	validator := NewUAATokenValidator(store, "", "")

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token := signToken(t, key, "key-1", claims)

	assert.NoError(t, validator.Validate(context.Background(), token))
}

func assertReason(t *testing.T, err error, reason accessDomain.Reason) {
	t.Helper()

	require.Error(t, err)
	var authErr *accessDomain.AuthorizationError
	require.True(t, errors.As(err, &authErr), "expected AuthorizationError, got %v", err)
	assert.Equal(t, reason, authErr.Reason)
}
