package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	apperrors "github.com/allisson/appgate/internal/errors"
)

// cloudControllerClient queries the cloud controller permissions API with the
// caller's own bearer token. Exactly one outbound call per invocation; the
// caller decides about retries.
type cloudControllerClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewCloudControllerClient creates a permissions client for the given cloud
// controller base URL.
func NewCloudControllerClient(httpClient *http.Client, baseURL string) PermissionsClient {
	return &cloudControllerClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// AppPermissions fetches the caller's permission summary for the application.
//
// Status mapping:
//   - 200: decoded permission summary
//   - 404: ErrNotFound, the application does not exist; the resolver turns
//     this into AccessLevelNone instead of failing
//   - 503: transient unavailability, retryable
//   - anything else: access denied (fail closed)
//
// The request is bound to ctx so an aborted inbound request cancels the
// outbound call.
func (c *cloudControllerClient) AppPermissions(
	ctx context.Context,
	applicationID, rawToken string,
) (accessDomain.Permissions, error) {
	var permissions accessDomain.Permissions

	url := fmt.Sprintf("%s/v2/apps/%s/permissions", c.baseURL, applicationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return permissions, apperrors.Wrap(err, "failed to build permissions request")
	}
	req.Header.Set("Authorization", "bearer "+rawToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return permissions, classifyTransportError(err, "permissions call")
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNotFound:
		return permissions, apperrors.Wrap(apperrors.ErrNotFound, "application not found")
	case http.StatusServiceUnavailable:
		return permissions, accessDomain.NewAuthorizationError(
			accessDomain.ReasonUnavailable,
			"permissions API is unavailable",
		)
	default:
		return permissions, accessDomain.NewAuthorizationError(
			accessDomain.ReasonAccessDenied,
			fmt.Sprintf("permissions call returned status %d", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return permissions, classifyTransportError(err, "permissions call")
	}

	if err := json.Unmarshal(body, &permissions); err != nil {
		return permissions, accessDomain.NewAuthorizationError(
			accessDomain.ReasonAccessDenied,
			"permissions response is not valid JSON",
		)
	}

	return permissions, nil
}
