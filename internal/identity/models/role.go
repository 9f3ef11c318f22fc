package models

import dErrors "trafficwatch/pkg/domain-errors"

// Role is a closed set of actor roles. There is no hierarchy encoded here;
// what each role may do lives in the policy tables.
//
// Usage: construct via ParseRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Role string

const (
	// RoleCitizen may submit violation reports and view their own.
	RoleCitizen Role = "citizen"
	// RoleOfficer may review and resolve pending violations.
	RoleOfficer Role = "officer"
	// RoleAuthority has full visibility plus user and camera management.
	RoleAuthority Role = "authority"
)

// validRoles is the single source of truth for valid roles.
var validRoles = map[Role]bool{
	RoleCitizen:   true,
	RoleOfficer:   true,
	RoleAuthority: true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
