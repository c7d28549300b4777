package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// generateKey creates an RSA key pair for signing test tokens.
func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// publicKeyPEM renders the public half of the key as PEM, the format the UAA
// token-keys endpoint publishes.
func publicKeyPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// signToken issues an RS256 token with the given claims and key id.
func signToken(t *testing.T, key *rsa.PrivateKey, keyID string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if keyID != "" {
		token.Header["kid"] = keyID
	}

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

// defaultClaims returns a claim set that passes issuer, audience and expiry
// checks in these tests.
func defaultClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss": "https://uaa.example.com/oauth/token",
		"aud": []string{"appgate"},
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

// uaaKeysHandler serves a token-keys document for the given kid/key pairs and
// counts how often it is hit.
type uaaKeysHandler struct {
	keys map[string]string // kid -> PEM
	hits int
}

func (h *uaaKeysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hits++

	type entry struct {
		KeyID     string `json:"kid"`
		Algorithm string `json:"alg"`
		Value     string `json:"value"`
	}
	var payload struct {
		Keys []entry `json:"keys"`
	}
	for kid, value := range h.keys {
		payload.Keys = append(payload.Keys, entry{KeyID: kid, Algorithm: "RS256", Value: value})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// newUAAServer starts a fake UAA that serves the given signing keys.
func newUAAServer(t *testing.T, keys map[string]string) (*httptest.Server, *uaaKeysHandler) {
	t.Helper()

	handler := &uaaKeysHandler{keys: keys}
	mux := http.NewServeMux()
	mux.Handle("/token_keys", handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, handler
}
