// Package domain defines the management endpoint catalog: descriptors, the
// static registry and the hypermedia link set exposed by the discovery root.
package domain

// Verb is the class of operation performed against a management endpoint.
type Verb string

const (
	// VerbRead covers GET-style operations that return endpoint data.
	VerbRead Verb = "read"

	// VerbWrite covers POST-style operations that change endpoint state.
	VerbWrite Verb = "write"
)

// SelfID is the reserved identifier of the discovery root. It is never
// registered as an endpoint; the link builder always emits it first.
const SelfID = "self"

// EndpointDescriptor declares one management endpoint: its identifier, the
// operations it supports and how it participates in gating and discovery.
// Descriptors are immutable values built once at startup.
type EndpointDescriptor struct {
	// ID uniquely identifies the endpoint and names its link.
	ID string

	// Path is the endpoint's path relative to the management base path, e.g.
	// "loggers/{name}". The registry defaults it to ID when empty.
	Path string

	// Readable indicates the endpoint supports read operations.
	Readable bool

	// Writable indicates the endpoint supports write operations.
	Writable bool

	// Selector is the name of the endpoint's path selector parameter
	// (e.g. "name" for /loggers/{name}). Empty when the endpoint takes no
	// selector. A non-empty selector makes the endpoint's link templated.
	Selector string

	// RestrictedReadable marks the endpoint as safe to read at RESTRICTED
	// access. Only self-describing endpoints should carry this flag.
	RestrictedReadable bool

	// Discoverable marks the endpoint as visible in the discovery link set at
	// RESTRICTED access. All endpoints are visible at FULL regardless.
	Discoverable bool
}

// Templated reports whether the endpoint declares a path selector.
func (d EndpointDescriptor) Templated() bool {
	return d.Selector != ""
}
