package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/allisson/appgate/internal/errors"
)

// Registry is the static endpoint catalog built once at startup and treated as
// immutable read-only shared state afterwards. Iteration order is registration
// order, which also fixes the discovery link order.
type Registry struct {
	ids         []string
	descriptors map[string]EndpointDescriptor
}

// NewRegistry builds a registry from the given descriptors in order.
// It fails on an empty or reserved identifier and on duplicates.
func NewRegistry(descriptors ...EndpointDescriptor) (*Registry, error) {
	registry := &Registry{
		ids:         make([]string, 0, len(descriptors)),
		descriptors: make(map[string]EndpointDescriptor, len(descriptors)),
	}

	for _, descriptor := range descriptors {
		if descriptor.ID == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "endpoint id is required")
		}
		if descriptor.ID == SelfID {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("endpoint id %q is reserved", SelfID),
			)
		}
		if _, exists := registry.descriptors[descriptor.ID]; exists {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("duplicate endpoint id %q", descriptor.ID),
			)
		}

		if descriptor.Path == "" {
			descriptor.Path = descriptor.ID
		}
		if descriptor.Selector != "" && !strings.Contains(descriptor.Path, "{"+descriptor.Selector+"}") {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("endpoint %q declares selector %q but its path has no placeholder", descriptor.ID, descriptor.Selector),
			)
		}
		if !descriptor.Readable && !descriptor.Writable {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("endpoint %q declares no operations", descriptor.ID),
			)
		}
		if descriptor.RestrictedReadable && !descriptor.Readable {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("endpoint %q is restricted-readable but not readable", descriptor.ID),
			)
		}

		registry.ids = append(registry.ids, descriptor.ID)
		registry.descriptors[descriptor.ID] = descriptor
	}

	return registry, nil
}

// Match resolves the descriptor addressed by a request path under the base
// path: segment is the first path element and withSelector tells whether a
// second element is present. Selector-less and selector-addressed variants of
// the same endpoint are distinct registry entries.
func (r *Registry) Match(segment string, withSelector bool) (EndpointDescriptor, bool) {
	for _, id := range r.ids {
		descriptor := r.descriptors[id]
		first, _, _ := strings.Cut(descriptor.Path, "/")
		if first == segment && (descriptor.Selector != "") == withSelector {
			return descriptor, true
		}
	}
	return EndpointDescriptor{}, false
}

// Lookup returns the descriptor for the given endpoint id.
func (r *Registry) Lookup(id string) (EndpointDescriptor, bool) {
	descriptor, ok := r.descriptors[id]
	return descriptor, ok
}

// All returns the descriptors in registration order. The returned slice is a
// copy; the registry itself never changes after construction.
func (r *Registry) All() []EndpointDescriptor {
	all := make([]EndpointDescriptor, 0, len(r.ids))
	for _, id := range r.ids {
		all = append(all, r.descriptors[id])
	}
	return all
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	return len(r.ids)
}
