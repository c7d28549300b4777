// Package service implements the pure decision components of the gateway:
// the operation gate and the discovery link-set builder. Both are synchronous,
// deterministic and free of I/O, so they are safe to call concurrently.
package service

import (
	accessDomain "github.com/allisson/appgate/internal/access/domain"
	endpointDomain "github.com/allisson/appgate/internal/endpoint/domain"
)

// OperationGate decides whether an access level permits an operation on a
// registered endpoint.
type OperationGate struct {
	registry *endpointDomain.Registry
}

// NewOperationGate creates a gate over the given endpoint registry.
func NewOperationGate(registry *endpointDomain.Registry) *OperationGate {
	return &OperationGate{registry: registry}
}

// Authorize reports whether the given access level permits the verb on the
// endpoint.
//
// Decision table:
//   - NONE denies every operation, including on unknown endpoints, so the
//     response never reveals whether an endpoint exists.
//   - RESTRICTED permits READ only on endpoints marked RestrictedReadable;
//     every WRITE is denied.
//   - FULL permits every operation on every registered endpoint. Whether the
//     endpoint actually declares the verb is a dispatch concern answered with
//     405, never an authorization denial.
func (g *OperationGate) Authorize(
	level accessDomain.AccessLevel,
	endpointID string,
	verb endpointDomain.Verb,
) bool {
	if level == accessDomain.AccessLevelNone {
		return false
	}

	descriptor, ok := g.registry.Lookup(endpointID)
	if !ok {
		return false
	}

	switch level {
	case accessDomain.AccessLevelFull:
		return true
	case accessDomain.AccessLevelRestricted:
		return verb == endpointDomain.VerbRead && descriptor.RestrictedReadable
	default:
		return false
	}
}
