// Package domain holds identifier types shared across modules.
//
// IDs are distinct named UUID types so the compiler rejects passing a camera
// id where a user id is expected. Construct them from external input via the
// Parse functions, which enforce the invariant that ids are valid, non-nil
// UUIDs; direct casting bypasses validation.
package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"

	dErrors "trafficwatch/pkg/domain-errors"
)

type (
	// UserID identifies a user of any role.
	UserID uuid.UUID
	// ViolationID identifies a violation record.
	ViolationID uuid.UUID
	// CameraID identifies a registered traffic camera.
	CameraID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseViolationID constructs a ViolationID from external input.
func ParseViolationID(s string) (ViolationID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ViolationID{}, err
	}
	return ViolationID(u), nil
}

// ParseCameraID constructs a CameraID from external input.
func ParseCameraID(s string) (CameraID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return CameraID{}, err
	}
	return CameraID(u), nil
}

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id ViolationID) String() string { return uuid.UUID(id).String() }
func (id CameraID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ViolationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CameraID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// database/sql plumbing. Stores pass typed ids straight to the driver and
// scan them back without converting through uuid.UUID at every call site.

func (id UserID) Value() (driver.Value, error)      { return uuid.UUID(id).Value() }
func (id ViolationID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id CameraID) Value() (driver.Value, error)    { return uuid.UUID(id).Value() }

func (id *UserID) Scan(src any) error      { return (*uuid.UUID)(id).Scan(src) }
func (id *ViolationID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }
func (id *CameraID) Scan(src any) error    { return (*uuid.UUID)(id).Scan(src) }

// Text marshaling keeps ids as canonical UUID strings in JSON payloads.

func (id UserID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id ViolationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id CameraID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ViolationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CameraID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
