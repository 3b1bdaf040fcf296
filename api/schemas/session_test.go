package schemas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRecordWireFormat(t *testing.T) {
	record := SessionRecord{
		StorageState: AuthState{Cookies: []Cookie{{
			Name:     "sso",
			Value:    "tok",
			Domain:   ".alibaba-inc.com",
			Path:     "/",
			Expires:  1893456000,
			HTTPOnly: true,
			Secure:   true,
			SameSite: "Lax",
		}}},
		SavedAt: "2026-08-29T10:00:00Z",
		Version: SessionSchemaVersion,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	// The on-disk keys are shared with other tooling and must not drift.
	assert.Contains(t, string(data), `"storage_state"`)
	assert.Contains(t, string(data), `"saved_at"`)
	assert.Contains(t, string(data), `"version":"1.0"`)
	assert.Contains(t, string(data), `"httpOnly":true`)
	assert.Contains(t, string(data), `"sameSite":"Lax"`)
}

func TestSavedTimeAcceptsKnownLayouts(t *testing.T) {
	cases := []string{
		"2026-08-29T10:00:00Z",
		"2026-08-29T10:00:00.123456789Z",
		"2026-08-29T10:00:00",
		"2026-08-29T10:00:00.123456",
	}
	for _, saved := range cases {
		record := SessionRecord{SavedAt: saved}
		parsed, ok := record.SavedTime()
		require.True(t, ok, "layout %q must parse", saved)
		assert.Equal(t, 2026, parsed.Year())
		assert.Equal(t, time.August, parsed.Month())
	}
}

func TestSavedTimeRejectsGarbage(t *testing.T) {
	for _, saved := range []string{"", "yesterday", "29/08/2026"} {
		record := SessionRecord{SavedAt: saved}
		_, ok := record.SavedTime()
		assert.False(t, ok, "input %q must not parse", saved)
	}
}
