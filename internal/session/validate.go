// File: internal/session/validate.go
package session

import (
	"time"

	"github.com/xkilldash9x/consolepilot/api/schemas"
)

// IsValid reports whether a loaded record is still usable: saved within
// maxAge and carrying at least one cookie. It fails closed: a nil record, a
// missing or malformed timestamp, or an empty cookie set all yield false.
//
// This is a hard expiry, not a sliding window; reading a record never
// renews it. The portal expires sessions server-side anyway, the check just
// avoids spending a browser launch on a session that is almost certainly
// dead.
func IsValid(record *schemas.SessionRecord, maxAge time.Duration) bool {
	return isValidAt(record, maxAge, time.Now())
}

// isValidAt is the clock-injected form of IsValid, used by tests.
func isValidAt(record *schemas.SessionRecord, maxAge time.Duration, now time.Time) bool {
	if record == nil {
		return false
	}

	savedAt, ok := record.SavedTime()
	if !ok {
		return false
	}
	if now.Sub(savedAt) > maxAge {
		return false
	}

	return len(record.StorageState.Cookies) > 0
}
