package domain

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Token is a bearer credential as presented by the caller: a signed token of
// three dot-separated base64url segments. Only the header segment is decoded
// here, to expose the signing algorithm and key id; claim and signature
// verification is the token validator's job.
type Token struct {
	// Raw is the token exactly as received.
	Raw string
	// Algorithm is the alg value from the token header.
	Algorithm string
	// KeyID is the kid value from the token header, empty if absent.
	KeyID string
}

// tokenHeader is the decoded first segment of a token.
type tokenHeader struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
}

// ParseToken checks the structural shape of a raw bearer token and decodes its
// header segment. It fails with ReasonInvalidToken when the token is empty,
// does not have exactly three segments, or carries a header that is not
// base64url-encoded JSON. Nothing is verified cryptographically.
func ParseToken(raw string) (*Token, error) {
	if raw == "" {
		return nil, NewAuthorizationError(ReasonMissingAuthorization, "token is empty")
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, NewAuthorizationError(ReasonInvalidToken, "token must have exactly three segments")
	}

	for _, segment := range segments[:2] {
		if segment == "" {
			return nil, NewAuthorizationError(ReasonInvalidToken, "token has an empty segment")
		}
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(segments[0])
	if err != nil {
		return nil, NewAuthorizationError(ReasonInvalidToken, "token header is not valid base64url")
	}

	var header tokenHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, NewAuthorizationError(ReasonInvalidToken, "token header is not valid JSON")
	}

	if header.Algorithm == "" {
		return nil, NewAuthorizationError(ReasonInvalidToken, "token header has no algorithm")
	}

	return &Token{
		Raw:       raw,
		Algorithm: header.Algorithm,
		KeyID:     header.KeyID,
	}, nil
}
