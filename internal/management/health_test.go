package management

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

func TestHealthHandlerRead(t *testing.T) {
	t.Run("up without audit store", func(t *testing.T) {
		handler := NewHealthHandler(nil)

		c, recorder := testContext(t, http.MethodGet, "/app/health", "")
		handler.Read(c, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"UP","components":{}}`, recorder.Body.String())
	})

	t.Run("up with healthy audit store", func(t *testing.T) {
		handler := NewHealthHandler(&fakePinger{})

		c, recorder := testContext(t, http.MethodGet, "/app/health", "")
		handler.Read(c, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"UP","components":{"auditStore":{"status":"UP"}}}`, recorder.Body.String())
	})

	t.Run("down when audit store is unreachable", func(t *testing.T) {
		handler := NewHealthHandler(&fakePinger{err: errors.New("no route")})

		c, recorder := testContext(t, http.MethodGet, "/app/health", "")
		handler.Read(c, "")

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.JSONEq(t, `{"status":"DOWN","components":{"auditStore":{"status":"DOWN"}}}`, recorder.Body.String())
	})
}
