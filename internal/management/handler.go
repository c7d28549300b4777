// Package management implements the concrete endpoints served behind the
// authorization gate: info, env, health, loggers and auditevents.
package management

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the operations of one management endpoint. The selector is
// the optional path segment after the endpoint id, empty when absent. The
// transport layer authorizes the verb before invoking either method.
type Handler interface {
	Read(c *gin.Context, selector string)
	Write(c *gin.Context, selector string)
}

// readOnly supplies the Write for endpoints that only support reads. FULL
// access authorizes every verb on every registered endpoint, so a write to a
// read-only endpoint reaches the handler and is answered here with 405.
type readOnly struct{}

func (readOnly) Write(c *gin.Context, selector string) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method_not_allowed"})
}
