package domain

// Permissions is the role summary returned by the cloud controller for one
// (caller, application) pair.
type Permissions struct {
	// ReadSensitiveData is true for space developers.
	ReadSensitiveData bool `json:"read_sensitive_data"`

	// ReadBasicData is true for space auditors and other read-only roles.
	ReadBasicData bool `json:"read_basic_data"`
}

// AccessLevel maps the permission summary onto an access level: sensitive-data
// access grants FULL, basic-data access grants RESTRICTED, anything else is
// NONE.
func (p Permissions) AccessLevel() AccessLevel {
	switch {
	case p.ReadSensitiveData:
		return AccessLevelFull
	case p.ReadBasicData:
		return AccessLevelRestricted
	default:
		return AccessLevelNone
	}
}
