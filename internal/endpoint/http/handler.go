package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	auditDomain "github.com/allisson/appgate/internal/audit/domain"
	auditUseCase "github.com/allisson/appgate/internal/audit/usecase"
	endpointDomain "github.com/allisson/appgate/internal/endpoint/domain"
	endpointService "github.com/allisson/appgate/internal/endpoint/service"
	apperrors "github.com/allisson/appgate/internal/errors"
	"github.com/allisson/appgate/internal/httputil"
	"github.com/allisson/appgate/internal/management"
)

// EndpointHandler serves the discovery root and dispatches endpoint requests
// through the operation gate. It runs behind SecurityMiddleware, which has
// already resolved the caller's access level into the request context.
type EndpointHandler struct {
	registry  *endpointDomain.Registry
	gate      *endpointService.OperationGate
	links     *endpointService.LinkSetBuilder
	handlers  map[string]management.Handler
	decisions auditUseCase.DecisionUseCase
	logger    *slog.Logger
}

// NewEndpointHandler creates the management transport handler. handlers maps
// endpoint ids (including selector variants) to their implementations.
func NewEndpointHandler(
	registry *endpointDomain.Registry,
	gate *endpointService.OperationGate,
	links *endpointService.LinkSetBuilder,
	handlers map[string]management.Handler,
	decisions auditUseCase.DecisionUseCase,
	logger *slog.Logger,
) *EndpointHandler {
	return &EndpointHandler{
		registry:  registry,
		gate:      gate,
		links:     links,
		handlers:  handlers,
		decisions: decisions,
		logger:    logger,
	}
}

// Discovery serves GET on the base path: the capability-filtered link set.
// NONE is denied like any other operation so callers without access learn
// nothing about the endpoint catalog.
func (h *EndpointHandler) Discovery(c *gin.Context) {
	level := h.accessLevel(c)

	if level == accessDomain.AccessLevelNone {
		h.record(c, endpointDomain.SelfID, endpointDomain.VerbRead, level, auditDomain.OutcomeDeny, string(accessDomain.ReasonAccessDenied))
		httputil.HandleErrorGin(c, accessDomain.NewAuthorizationError(
			accessDomain.ReasonAccessDenied,
			"access level does not permit discovery",
		), h.logger)
		return
	}

	h.record(c, endpointDomain.SelfID, endpointDomain.VerbRead, level, auditDomain.OutcomeAllow, "")
	c.JSON(http.StatusOK, gin.H{"_links": h.links.Build(level)})
}

// Dispatch routes GET and POST requests for /:endpoint and
// /:endpoint/:selector through the gate to the endpoint implementation.
//
// Denials never leak endpoint existence below FULL: an unknown endpoint is
// 404 only for FULL callers and 403 for everyone else, the same answer a
// registered but forbidden endpoint gives.
func (h *EndpointHandler) Dispatch(c *gin.Context) {
	level := h.accessLevel(c)
	segment := c.Param("endpoint")
	selector := c.Param("selector")

	verb := endpointDomain.VerbRead
	if c.Request.Method == http.MethodPost {
		verb = endpointDomain.VerbWrite
	}

	descriptor, found := h.registry.Match(segment, selector != "")
	if !found {
		if level == accessDomain.AccessLevelFull {
			h.record(c, segment, verb, level, auditDomain.OutcomeDeny, "not_found")
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrNotFound, "unknown management endpoint"), h.logger)
			return
		}
		h.deny(c, segment, verb, level)
		return
	}

	if !h.gate.Authorize(level, descriptor.ID, verb) {
		h.deny(c, descriptor.ID, verb, level)
		return
	}

	handler, ok := h.handlers[descriptor.ID]
	if !ok {
		h.logger.Error("no handler registered for endpoint",
			slog.String("endpoint_id", descriptor.ID))
		httputil.HandleErrorGin(c, apperrors.New("endpoint handler missing"), h.logger)
		return
	}

	h.record(c, descriptor.ID, verb, level, auditDomain.OutcomeAllow, "")

	if verb == endpointDomain.VerbWrite {
		handler.Write(c, selector)
		return
	}
	handler.Read(c, selector)
}

// deny records the refusal and answers 403 without confirming the endpoint
// exists.
func (h *EndpointHandler) deny(
	c *gin.Context,
	endpointID string,
	verb endpointDomain.Verb,
	level accessDomain.AccessLevel,
) {
	h.record(c, endpointID, verb, level, auditDomain.OutcomeDeny, string(accessDomain.ReasonAccessDenied))
	httputil.HandleErrorGin(c, accessDomain.NewAuthorizationError(
		accessDomain.ReasonAccessDenied,
		"access level does not permit this operation",
	), h.logger)
}

// record stores the decision best-effort; a failing audit store never affects
// the response.
func (h *EndpointHandler) record(
	c *gin.Context,
	endpointID string,
	verb endpointDomain.Verb,
	level accessDomain.AccessLevel,
	outcome auditDomain.Outcome,
	reason string,
) {
	err := h.decisions.Record(
		c.Request.Context(),
		requestid.Get(c),
		endpointID,
		string(verb),
		level.String(),
		outcome,
		reason,
	)
	if err != nil {
		h.logger.Warn("failed to record authorization decision",
			slog.String("endpoint_id", endpointID),
			slog.String("error", err.Error()))
	}
}

// accessLevel reads the level the security middleware stored; absence means
// no access.
func (h *EndpointHandler) accessLevel(c *gin.Context) accessDomain.AccessLevel {
	level, ok := GetAccessLevel(c.Request.Context())
	if !ok {
		return accessDomain.AccessLevelNone
	}
	return level
}
