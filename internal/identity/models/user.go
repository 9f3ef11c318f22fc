package models

import (
	"strings"
	"time"

	id "trafficwatch/pkg/domain"
	dErrors "trafficwatch/pkg/domain-errors"
)

// User is the stored account record behind an Identity.
//
// Invariants:
//   - Role is immutable after construction (no self-promotion path exists)
//   - FullName is non-empty and at most 100 characters
//   - CreatedAt is immutable after construction
//
// CitizenNo, BadgeNumber, and Department are advisory metadata for the
// matching role. The access policy never reads them.
type User struct {
	ID        id.UserID `json:"id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CitizenNo   string `json:"citizen_no,omitempty"`
	BadgeNumber string `json:"badge_number,omitempty"`
	Department  string `json:"department,omitempty"`
}

// NewUser validates and constructs an active user with a fixed role.
func NewUser(userID id.UserID, fullName string, role Role, now time.Time) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name cannot be empty")
	}
	if len(fullName) > 100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name must be 100 characters or less")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user role must be a supported role")
	}
	return &User{
		ID:        userID,
		FullName:  fullName,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanDeactivate reports whether the account can move to inactive.
func (u *User) CanDeactivate() error {
	if !u.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "user is already inactive")
	}
	return nil
}

// ApplyDeactivation records the state change. Call after CanDeactivate.
func (u *User) ApplyDeactivation(now time.Time) {
	u.Active = false
	u.UpdatedAt = now
}

// CanReactivate reports whether the account can move back to active.
func (u *User) CanReactivate() error {
	if u.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "user is already active")
	}
	return nil
}

// ApplyReactivation records the state change. Call after CanReactivate.
func (u *User) ApplyReactivation(now time.Time) {
	u.Active = true
	u.UpdatedAt = now
}

// Identity is the resolved view of an authenticated actor handed to policy
// checks and services. It carries no credentials.
type Identity struct {
	ID     id.UserID
	Role   Role
	Active bool
}

// Identity projects the policy-relevant slice of the user record.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role, Active: u.Active}
}

// CanReview reports whether the actor may review and resolve violations.
func (i Identity) CanReview() bool {
	return i.Role == RoleOfficer || i.Role == RoleAuthority
}

// CanManageUsers reports whether the actor may administer users and cameras.
func (i Identity) CanManageUsers() bool {
	return i.Role == RoleAuthority
}
