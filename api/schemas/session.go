package schemas

import "time"

// SessionSchemaVersion tags persisted session records for forward compatibility.
const SessionSchemaVersion = "1.0"

// Cookie mirrors the cookie shape the browser driver exports and accepts.
// The JSON tags define the on-disk session file format and must not change
// without bumping SessionSchemaVersion.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// StorageItem is a single key/value pair from an origin's local storage.
type StorageItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OriginState holds per-origin storage captured alongside cookies. It can be
// arbitrarily large (sites stash entire scripts in localStorage), which is why
// the sanitizer strips it before the state is logged or reused.
type OriginState struct {
	Origin       string        `json:"origin"`
	LocalStorage []StorageItem `json:"localStorage,omitempty"`
}

// AuthState is the serialized browser authentication state: the cookie set
// that lets a fresh browser context resume as an already-logged-in user.
type AuthState struct {
	Cookies []Cookie      `json:"cookies"`
	Origins []OriginState `json:"origins,omitempty"`
}

// SessionRecord is the persisted envelope around an AuthState. Records are
// replaced wholesale on every save, never mutated in place.
type SessionRecord struct {
	StorageState AuthState `json:"storage_state"`
	SavedAt      string    `json:"saved_at"`
	Version      string    `json:"version"`
}

// savedAtLayouts lists the timestamp formats accepted when reading a record.
// RFC3339 is what we write; the bare layout covers files written by earlier
// tooling that used a local, zone-less ISO timestamp.
var savedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

// SavedTime parses the record's save timestamp. The boolean is false when the
// timestamp is absent or malformed; callers must treat that as "unusable
// record", never as an error.
func (r *SessionRecord) SavedTime() (time.Time, bool) {
	if r == nil || r.SavedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range savedAtLayouts {
		if t, err := time.Parse(layout, r.SavedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
