package management

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// secretMarkers flags environment variable names whose values must be masked
// before leaving the process.
var secretMarkers = []string{"PASSWORD", "SECRET", "TOKEN", "KEY", "CREDENTIAL", "DSN", "CONNECTION_STRING"}

const maskedValue = "******"

// EnvHandler serves the process environment with secret-looking values
// masked.
type EnvHandler struct {
	readOnly
	environ func() []string
}

// NewEnvHandler creates the env endpoint handler reading from the real
// process environment.
func NewEnvHandler() *EnvHandler {
	return &EnvHandler{environ: os.Environ}
}

// Read returns every environment variable, masking values whose names look
// secret bearing.
func (h *EnvHandler) Read(c *gin.Context, selector string) {
	properties := make(map[string]string)
	for _, entry := range h.environ() {
		name, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		if isSecretName(name) {
			value = maskedValue
		}
		properties[name] = value
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// isSecretName reports whether the variable name matches a secret marker.
func isSecretName(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
