// File: internal/session/validate_test.go
package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/consolepilot/api/schemas"
)

func recordSavedAt(savedAt string, cookies int) *schemas.SessionRecord {
	rec := &schemas.SessionRecord{
		SavedAt: savedAt,
		Version: schemas.SessionSchemaVersion,
	}
	for i := 0; i < cookies; i++ {
		rec.StorageState.Cookies = append(rec.StorageState.Cookies, schemas.Cookie{Name: "c", Value: "v"})
	}
	return rec
}

func TestIsValidFailsClosed(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("nil record", func(t *testing.T) {
		assert.False(t, isValidAt(nil, 24*time.Hour, now))
	})

	t.Run("missing saved_at", func(t *testing.T) {
		assert.False(t, isValidAt(recordSavedAt("", 1), 24*time.Hour, now))
	})

	t.Run("malformed saved_at", func(t *testing.T) {
		assert.False(t, isValidAt(recordSavedAt("yesterday-ish", 1), 24*time.Hour, now))
	})

	t.Run("empty cookie set regardless of age", func(t *testing.T) {
		fresh := recordSavedAt(now.Format(time.RFC3339), 0)
		assert.False(t, isValidAt(fresh, 24*time.Hour, now))
	})
}

func TestIsValidAgeCheck(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("fresh record is valid", func(t *testing.T) {
		rec := recordSavedAt(now.Add(-1*time.Hour).Format(time.RFC3339), 1)
		assert.True(t, isValidAt(rec, 24*time.Hour, now))
	})

	t.Run("record saved 25 hours ago with 24h window is invalid", func(t *testing.T) {
		rec := recordSavedAt(now.Add(-25*time.Hour).Format(time.RFC3339), 1)
		assert.False(t, isValidAt(rec, 24*time.Hour, now))
	})

	t.Run("zone-less legacy timestamp is accepted", func(t *testing.T) {
		rec := recordSavedAt(now.Add(-1*time.Hour).Format("2006-01-02T15:04:05"), 1)
		assert.True(t, isValidAt(rec, 24*time.Hour, now))
	})
}

// Expiry is monotonic in the max-age parameter: once a window is long enough
// to accept a record, every longer window accepts it too.
func TestExpiryMonotonicity(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	age := 10 * time.Hour
	rec := recordSavedAt(now.Add(-age).Format(time.RFC3339), 1)

	windows := []time.Duration{
		1 * time.Hour, 5 * time.Hour, 9 * time.Hour,
		10 * time.Hour, 11 * time.Hour, 24 * time.Hour, 100 * time.Hour,
	}

	sawValid := false
	for _, w := range windows {
		valid := isValidAt(rec, w, now)
		if sawValid {
			assert.True(t, valid, "validity must not flip back to false at window %v", w)
		}
		if valid {
			sawValid = true
			assert.GreaterOrEqual(t, w, age)
		} else {
			assert.Less(t, w, age)
		}
	}
	assert.True(t, sawValid)
}

func TestCleanIsIdempotentAndTotal(t *testing.T) {
	state := schemas.AuthState{
		Cookies: []schemas.Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}},
		Origins: []schemas.OriginState{
			{Origin: "https://example.com", LocalStorage: []schemas.StorageItem{{Name: "k", Value: "huge"}}},
		},
	}

	once := Clean(state)
	assert.Equal(t, state.Cookies, once.Cookies)
	assert.Nil(t, once.Origins)

	twice := Clean(once)
	assert.Equal(t, once, twice)

	// Total over degenerate input as well.
	assert.Equal(t, schemas.AuthState{}, Clean(schemas.AuthState{}))
}
