package models

import dErrors "trafficwatch/pkg/domain-errors"

// Status is the lifecycle state of a violation record.
//
// Lifecycle: pending -> {processed, rejected}; processed -> {paid, appealed};
// paid, rejected, and appealed are terminal. An appeal may conceptually
// re-open a case through an adjudication process outside this system, so no
// transition out of appealed is modeled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
	StatusAppealed  Status = "appealed"
)

// statusTransitions is the single source of truth for legal transitions.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusProcessed, StatusRejected},
	StatusProcessed: {StatusPaid, StatusAppealed},
	StatusPaid:      {},
	StatusRejected:  {},
	StatusAppealed:  {},
}

// ParseStatus constructs a Status from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid status")
	}
	return st, nil
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0 && s.IsValid()
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Source is the provenance of a violation record.
type Source string

const (
	// SourceCamera marks a violation detected by an automated camera.
	SourceCamera Source = "camera"
	// SourceReport marks a violation reported by a citizen.
	SourceReport Source = "report"
)

// ParseSource constructs a Source from external input.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceCamera, SourceReport:
		return Source(s), nil
	case "":
		return "", dErrors.New(dErrors.CodeInvalidInput, "source cannot be empty")
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid source")
	}
}

// String returns the string representation of the source.
func (s Source) String() string {
	return string(s)
}
