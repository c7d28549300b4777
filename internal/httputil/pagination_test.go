package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginationContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/app/auditevents"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedOffset int
		expectedLimit  int
		expectError    bool
	}{
		{"defaults", "", 0, 50, false},
		{"explicit values", "?offset=10&limit=20", 10, 20, false},
		{"max limit", "?limit=100", 0, 100, false},
		{"negative offset", "?offset=-1", 0, 0, true},
		{"zero limit", "?limit=0", 0, 0, true},
		{"limit above max", "?limit=101", 0, 0, true},
		{"non numeric offset", "?offset=abc", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit, err := ParsePagination(paginationContext(tt.query))

			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}
