package management

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InfoHandler serves basic application identity. Readable at RESTRICTED, so
// it must never include sensitive values.
type InfoHandler struct {
	readOnly
	applicationName string
	applicationID   string
	version         string
}

// NewInfoHandler creates the info endpoint handler.
func NewInfoHandler(applicationName, applicationID, version string) *InfoHandler {
	return &InfoHandler{
		applicationName: applicationName,
		applicationID:   applicationID,
		version:         version,
	}
}

// Read returns the application name, platform application id and version.
func (h *InfoHandler) Read(c *gin.Context, selector string) {
	c.JSON(http.StatusOK, gin.H{
		"name":           h.applicationName,
		"application_id": h.applicationID,
		"version":        h.version,
	})
}
