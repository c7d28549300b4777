// Package domain defines the access-control domain model for management endpoints.
// Access decisions are expressed as coarse-grained levels derived from the caller's
// role on the target application.
package domain

// AccessLevel is the capability tier granted to a caller for one request.
// Levels are ordered: FULL covers everything RESTRICTED covers, which covers
// everything NONE covers. The zero value is AccessLevelNone so that any
// uninitialized or error path denies access.
type AccessLevel int

const (
	// AccessLevelNone grants no access to any management endpoint.
	AccessLevelNone AccessLevel = iota

	// AccessLevelRestricted grants read access to endpoints explicitly marked
	// as safe for restricted callers.
	AccessLevelRestricted

	// AccessLevelFull grants every operation on every registered endpoint.
	AccessLevelFull
)

// String returns the canonical name of the access level.
func (l AccessLevel) String() string {
	switch l {
	case AccessLevelRestricted:
		return "restricted"
	case AccessLevelFull:
		return "full"
	default:
		return "none"
	}
}

// AtLeast reports whether the level grants at least the capabilities of other.
// An operation permitted at RESTRICTED is always permitted at FULL.
func (l AccessLevel) AtLeast(other AccessLevel) bool {
	return l >= other
}
