package management

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks connectivity of a backing store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports gateway liveness and, when an audit store is
// configured, its connectivity.
type HealthHandler struct {
	readOnly
	auditStore Pinger
}

// NewHealthHandler creates the health endpoint handler. auditStore may be
// nil when the audit trail is disabled.
func NewHealthHandler(auditStore Pinger) *HealthHandler {
	return &HealthHandler{auditStore: auditStore}
}

// Read returns overall status plus per-component detail. A failing component
// turns the response into 503 so platform health checks notice.
func (h *HealthHandler) Read(c *gin.Context, selector string) {
	status := "UP"
	components := gin.H{}

	if h.auditStore != nil {
		auditStatus := "UP"
		if err := h.auditStore.PingContext(c.Request.Context()); err != nil {
			auditStatus = "DOWN"
			status = "DOWN"
		}
		components["auditStore"] = gin.H{"status": auditStatus}
	}

	statusCode := http.StatusOK
	if status != "UP" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":     status,
		"components": components,
	})
}
