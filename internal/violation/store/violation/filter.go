package violation

import (
	"strings"
	"time"

	"trafficwatch/internal/violation/models"
)

// Filter narrows a violation listing. A zero field means "no constraint",
// never "match empty". Plate and type match as case-insensitive substrings;
// the date bounds apply to the violation time, inclusive on both ends.
type Filter struct {
	Status        *models.Status
	LicensePlate  string
	ViolationType string
	DateFrom      *time.Time
	DateTo        *time.Time
}

func (f Filter) matches(v *models.Violation) bool {
	if f.Status != nil && v.Status != *f.Status {
		return false
	}
	if f.LicensePlate != "" && !strings.Contains(strings.ToLower(v.LicensePlate), strings.ToLower(f.LicensePlate)) {
		return false
	}
	if f.ViolationType != "" && !strings.Contains(strings.ToLower(v.ViolationType), strings.ToLower(f.ViolationType)) {
		return false
	}
	if f.DateFrom != nil && v.ViolationTime.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && v.ViolationTime.After(*f.DateTo) {
		return false
	}
	return true
}
