// File: internal/browser/browser.go

// Package browser drives a Chrome instance over the DevTools protocol. The
// Manager owns the browser process; each Page is an isolated tab.
package browser

import (
	"context"
	"time"

	"github.com/xkilldash9x/consolepilot/api/schemas"
)

// Page is one browser tab. All operations respect the passed context's
// deadline in addition to the tab's own lifetime.
type Page interface {
	// Navigate loads a URL, waits for the body, then settles for the
	// configured post-load wait.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector is visible. A zero timeout means
	// the ctx deadline alone governs the wait.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Text returns the trimmed text of the first node matching the selector.
	Text(ctx context.Context, selector string) (string, error)
	// TextAll returns the trimmed text of every node matching the selector.
	TextAll(ctx context.Context, selector string) ([]string, error)
	// Rows returns, for every node matching rowSelector, the trimmed texts of
	// its descendants matching cellSelector.
	Rows(ctx context.Context, rowSelector, cellSelector string) ([][]string, error)
	// Fill clears the matched input and types the value into it.
	Fill(ctx context.Context, selector, value string) error
	// Click clicks the first node matching the selector.
	Click(ctx context.Context, selector string) error
	// Frame returns a Page scoped to the iframe whose URL contains every one
	// of the given substrings.
	Frame(ctx context.Context, urlSubstrings ...string) (Page, error)
	// ExportAuthState captures the tab's cookies as a portable auth state.
	ExportAuthState(ctx context.Context) (*schemas.AuthState, error)
	// Close tears the tab down. Safe to call more than once.
	Close(ctx context.Context) error
}

// Opener creates pages. Satisfied by *Manager; tests substitute fakes.
type Opener interface {
	// NewPage opens a fresh tab. When state is non-nil its cookies are
	// installed before the page is handed back.
	NewPage(ctx context.Context, state *schemas.AuthState) (Page, error)
}
