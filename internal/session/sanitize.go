// File: internal/session/sanitize.go
package session

import "github.com/xkilldash9x/consolepilot/api/schemas"

// Clean reduces an authentication state to its cookie list. Origin storage is
// dropped entirely: localStorage blobs can hold whole scripts that flood the
// terminal when echoed, and cookies alone are sufficient to resume the
// logged-in session. Lossy by design and idempotent.
func Clean(state schemas.AuthState) schemas.AuthState {
	return schemas.AuthState{Cookies: state.Cookies}
}
