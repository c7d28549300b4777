package service

import (
	"strings"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
	endpointDomain "github.com/allisson/appgate/internal/endpoint/domain"
)

// LinkSetBuilder computes the discovery link set visible at a given access
// level. Output is deterministic: for fixed inputs the mapping and its order
// are identical across calls.
type LinkSetBuilder struct {
	registry *endpointDomain.Registry
	basePath string
}

// NewLinkSetBuilder creates a builder for the given registry and management
// base path (e.g. "/app"). A trailing slash on the base path is dropped.
func NewLinkSetBuilder(registry *endpointDomain.Registry, basePath string) *LinkSetBuilder {
	return &LinkSetBuilder{
		registry: registry,
		basePath: strings.TrimSuffix(basePath, "/"),
	}
}

// Build returns the links visible at the given access level:
//   - NONE: an empty set (the discovery operation itself should already have
//     been denied by the gate).
//   - RESTRICTED: self plus endpoints flagged Discoverable.
//   - FULL: self plus every registered endpoint.
//
// self is always first; remaining links follow registration order. Templated
// entries keep their selector placeholder in the href.
func (b *LinkSetBuilder) Build(level accessDomain.AccessLevel) *endpointDomain.LinkSet {
	links := endpointDomain.NewLinkSet()
	if level == accessDomain.AccessLevelNone {
		return links
	}

	links.Add(endpointDomain.SelfID, endpointDomain.LinkEntry{Href: b.basePath})

	for _, descriptor := range b.registry.All() {
		if level == accessDomain.AccessLevelRestricted && !descriptor.Discoverable {
			continue
		}
		links.Add(descriptor.ID, endpointDomain.LinkEntry{
			Href:      b.basePath + "/" + descriptor.Path,
			Templated: descriptor.Templated(),
		})
	}

	return links
}
