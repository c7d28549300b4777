package management

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	c.Request = request

	return c, recorder
}

func TestInfoHandlerRead(t *testing.T) {
	handler := NewInfoHandler("demo-app", "app-guid", "1.2.3")

	c, recorder := testContext(t, http.MethodGet, "/app/info", "")
	handler.Read(c, "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"name":"demo-app","application_id":"app-guid","version":"1.2.3"}`, recorder.Body.String())
}

func TestReadOnlyWrite(t *testing.T) {
	handler := NewInfoHandler("demo-app", "app-guid", "1.2.3")

	c, recorder := testContext(t, http.MethodPost, "/app/info", "")
	handler.Write(c, "")

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
