package service

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	apperrors "github.com/allisson/appgate/internal/errors"
)

// UAAKeyStore resolves token signing keys from the platform UAA token-keys
// endpoint. Fetched keys are cached for a TTL and concurrent cache misses are
// collapsed into a single outbound call, so bursts of validations never stampede
// the UAA. Safe for concurrent use.
type UAAKeyStore struct {
	httpClient *http.Client
	uaaURL     string
	ttl        time.Duration
	timeout    time.Duration

	group       singleflight.Group
	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	refreshedAt time.Time
}

// tokenKeysResponse is the UAA token-keys payload. Values are PEM-encoded
// public keys.
type tokenKeysResponse struct {
	Keys []struct {
		KeyID     string `json:"kid"`
		Algorithm string `json:"alg"`
		Value     string `json:"value"`
	} `json:"keys"`
}

// NewUAAKeyStore creates a key store for the given UAA base URL. The timeout
// bounds each outbound fetch; the TTL controls how long fetched keys are
// reused before a refresh.
func NewUAAKeyStore(httpClient *http.Client, uaaURL string, ttl, timeout time.Duration) *UAAKeyStore {
	return &UAAKeyStore{
		httpClient: httpClient,
		uaaURL:     uaaURL,
		ttl:        ttl,
		timeout:    timeout,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// PublicKey returns the signing key for the given key id, refreshing the cache
// when it is stale or does not contain the id. An empty key id resolves only
// when the platform publishes exactly one key. The call aborts as soon as ctx
// is done, leaving any shared in-flight fetch to complete for other waiters.
func (s *UAAKeyStore) PublicKey(ctx context.Context, keyID string) (*rsa.PublicKey, error) {
	if key, ok := s.cachedKey(keyID); ok {
		return key, nil
	}

	// Collapse concurrent refreshes into one outbound call. The fetch runs on
	// its own deadline so a single aborted request cannot fail other waiters.
	resultCh := s.group.DoChan("token_keys", func() (any, error) {
		return nil, s.refreshKeys()
	})

	select {
	case <-ctx.Done():
		return nil, accessDomain.NewAuthorizationError(
			accessDomain.ReasonTimeout,
			"signing key fetch aborted: "+ctx.Err().Error(),
		)
	case result := <-resultCh:
		if result.Err != nil {
			return nil, result.Err
		}
	}

	if key, ok := s.cachedKey(keyID); ok {
		return key, nil
	}

	return nil, accessDomain.NewAuthorizationError(
		accessDomain.ReasonInvalidToken,
		fmt.Sprintf("token signed with unknown key %q", keyID),
	)
}

// cachedKey returns the key for the id if the cache is fresh. An empty id
// matches iff exactly one key is cached.
func (s *UAAKeyStore) cachedKey(keyID string) (*rsa.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if time.Since(s.refreshedAt) > s.ttl {
		return nil, false
	}

	if keyID == "" {
		if len(s.keys) != 1 {
			return nil, false
		}
		for _, key := range s.keys {
			return key, true
		}
	}

	key, ok := s.keys[keyID]
	return key, ok
}

// refreshKeys fetches the token-keys document and replaces the cache.
func (s *UAAKeyStore) refreshKeys() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.uaaURL+"/token_keys", nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to build token keys request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err, "signing key fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonUnavailable,
			fmt.Sprintf("signing key fetch returned status %d", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err, "signing key fetch")
	}

	var payload tokenKeysResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return accessDomain.NewAuthorizationError(
			accessDomain.ReasonUnavailable,
			"signing key response is not valid JSON",
		)
	}

	keys := make(map[string]*rsa.PublicKey, len(payload.Keys))
	for _, entry := range payload.Keys {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(entry.Value))
		if err != nil {
			// Skip keys for other algorithms; only RSA keys verify RS256 tokens.
			continue
		}
		keys[entry.KeyID] = key
	}

	s.mu.Lock()
	s.keys = keys
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	return nil
}

// classifyTransportError maps outbound transport failures onto the
// authorization error taxonomy: timeouts surface immediately as a cannot-verify
// condition, everything else is treated as a transient unavailability.
func classifyTransportError(err error, call string) error {
	var netErr net.Error
	if apperrors.Is(err, context.DeadlineExceeded) ||
		apperrors.Is(err, context.Canceled) ||
		(apperrors.As(err, &netErr) && netErr.Timeout()) {
		return accessDomain.NewAuthorizationError(accessDomain.ReasonTimeout, call+" timed out")
	}

	return accessDomain.NewAuthorizationError(
		accessDomain.ReasonUnavailable,
		call+" failed: "+err.Error(),
	)
}
