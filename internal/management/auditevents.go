package management

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	auditUsecase "github.com/allisson/appgate/internal/audit/usecase"
	"github.com/allisson/appgate/internal/httputil"
)

// AuditEventResponse is one authorization decision in the auditevents
// listing.
type AuditEventResponse struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	EndpointID string    `json:"endpoint_id"`
	Verb       string    `json:"verb"`
	Level      string    `json:"level"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditEventsHandler lists recorded authorization decisions, newest first.
type AuditEventsHandler struct {
	readOnly
	decisions auditUsecase.DecisionUseCase
	logger    *slog.Logger
}

// NewAuditEventsHandler creates the auditevents endpoint handler.
func NewAuditEventsHandler(decisions auditUsecase.DecisionUseCase, logger *slog.Logger) *AuditEventsHandler {
	return &AuditEventsHandler{
		decisions: decisions,
		logger:    logger,
	}
}

// Read returns a paginated page of decision records.
func (h *AuditEventsHandler) Read(c *gin.Context, selector string) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	records, err := h.decisions.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	events := make([]AuditEventResponse, 0, len(records))
	for _, record := range records {
		events = append(events, AuditEventResponse{
			ID:         record.ID.String(),
			RequestID:  record.RequestID,
			EndpointID: record.EndpointID,
			Verb:       record.Verb,
			Level:      record.Level,
			Outcome:    string(record.Outcome),
			Reason:     record.Reason,
			CreatedAt:  record.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"offset": offset,
		"limit":  limit,
	})
}
