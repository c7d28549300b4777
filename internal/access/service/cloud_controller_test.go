package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	apperrors "github.com/allisson/appgate/internal/errors"
)

func newPermissionsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/apps/app-id/permissions", handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCloudControllerClientAppPermissions(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected accessDomain.AccessLevel
	}{
		{
			name:     "space developer gets full",
			body:     `{"read_sensitive_data": true, "read_basic_data": true}`,
			expected: accessDomain.AccessLevelFull,
		},
		{
			name:     "space auditor gets restricted",
			body:     `{"read_sensitive_data": false, "read_basic_data": true}`,
			expected: accessDomain.AccessLevelRestricted,
		},
		{
			name:     "no role gets none",
			body:     `{"read_sensitive_data": false, "read_basic_data": false}`,
			expected: accessDomain.AccessLevelNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newPermissionsServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "bearer caller-token", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			client := NewCloudControllerClient(server.Client(), server.URL)
			permissions, err := client.AppPermissions(context.Background(), "app-id", "caller-token")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, permissions.AccessLevel())
		})
	}
}

func TestCloudControllerClientApplicationNotFound(t *testing.T) {
	server := newPermissionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := NewCloudControllerClient(server.Client(), server.URL)
	_, err := client.AppPermissions(context.Background(), "app-id", "caller-token")

	// not found is a sentinel, not an authorization error: it resolves to NONE
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	var authErr *accessDomain.AuthorizationError
	assert.False(t, errors.As(err, &authErr))
}

func TestCloudControllerClientFailureStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reason accessDomain.Reason
	}{
		{"unavailable is transient", http.StatusServiceUnavailable, accessDomain.ReasonUnavailable},
		{"unauthorized denies access", http.StatusUnauthorized, accessDomain.ReasonAccessDenied},
		{"server error denies access", http.StatusInternalServerError, accessDomain.ReasonAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newPermissionsServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			client := NewCloudControllerClient(server.Client(), server.URL)
			_, err := client.AppPermissions(context.Background(), "app-id", "caller-token")

			assertReason(t, err, tt.reason)
		})
	}
}

func TestCloudControllerClientMalformedBody(t *testing.T) {
	server := newPermissionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-json"))
	})

	client := NewCloudControllerClient(server.Client(), server.URL)
	_, err := client.AppPermissions(context.Background(), "app-id", "caller-token")

	assertReason(t, err, accessDomain.ReasonAccessDenied)
}

func TestCloudControllerClientTimeout(t *testing.T) {
	started := make(chan struct{})
	server := newPermissionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	client := NewCloudControllerClient(server.Client(), server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.AppPermissions(ctx, "app-id", "caller-token")
	<-started

	assertReason(t, err, accessDomain.ReasonTimeout)
}
