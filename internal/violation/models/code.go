package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// codePrefix heads every violation code; the date component follows it.
const codePrefix = "VL"

// GenerateCode produces a human-readable violation code: "VL", the record
// date as YYYYMMDD, and an 8-character opaque suffix drawn from a random
// UUID. The suffix makes collisions overwhelmingly unlikely but not
// impossible; callers must still treat the store's uniqueness constraint as
// the source of truth and retry on conflict.
func GenerateCode(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return codePrefix + now.Format("20060102") + suffix
}
