// File: internal/login/orchestrator_test.go
package login

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/api/schemas"
	"github.com/xkilldash9x/consolepilot/internal/browser"
	"github.com/xkilldash9x/consolepilot/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePage scripts visibility per selector and records interactions.
type fakePage struct {
	visible   map[string]bool
	navigated []string
	filled    map[string]string
	clicked   []string
	exported  *schemas.AuthState
	exportErr error
	closed    bool
}

func newFakePage() *fakePage {
	return &fakePage{visible: map[string]bool{}, filled: map[string]string{}}
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakePage) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if f.visible[selector] {
		return nil
	}
	return fmt.Errorf("selector %q not visible", selector)
}

func (f *fakePage) Text(_ context.Context, _ string) (string, error)      { return "", nil }
func (f *fakePage) TextAll(_ context.Context, _ string) ([]string, error) { return nil, nil }
func (f *fakePage) Rows(_ context.Context, _, _ string) ([][]string, error) {
	return nil, nil
}

func (f *fakePage) Fill(_ context.Context, selector, value string) error {
	f.filled[selector] = value
	return nil
}

func (f *fakePage) Click(_ context.Context, selector string) error {
	f.clicked = append(f.clicked, selector)
	return nil
}

func (f *fakePage) Frame(_ context.Context, _ ...string) (browser.Page, error) {
	return nil, errors.New("no frames in fake")
}

func (f *fakePage) ExportAuthState(_ context.Context) (*schemas.AuthState, error) {
	return f.exported, f.exportErr
}

func (f *fakePage) Close(_ context.Context) error {
	f.closed = true
	return nil
}

// fakeOpener hands out one prepared page and records the state it received.
type fakeOpener struct {
	page          *fakePage
	receivedState *schemas.AuthState
	err           error
}

func (f *fakeOpener) NewPage(_ context.Context, state *schemas.AuthState) (browser.Page, error) {
	f.receivedState = state
	return f.page, f.err
}

// fakeStore is an in-memory SessionStore.
type fakeStore struct {
	record *schemas.SessionRecord
	saved  *schemas.AuthState
}

func (f *fakeStore) Save(state schemas.AuthState) bool {
	f.saved = &state
	return true
}

func (f *fakeStore) Load() *schemas.SessionRecord { return f.record }

func testPortal() config.PortalConfig {
	return config.PortalConfig{
		LoginURL:          "https://portal.example.com/login",
		CheckURL:          "https://portal.example.com/home",
		IndicatorSelector: `//h2[contains(., "Welcome")]`,
		ProbeTimeout:      time.Second,
		LoginTimeout:      time.Second,
		UsernameEnv:       "TEST_LOGIN_USER",
		PasswordEnv:       "TEST_LOGIN_PASS",
	}
}

func testSession() config.SessionConfig {
	return config.SessionConfig{Path: "unused", MaxAgeHours: 24}
}

func freshRecord(t *testing.T) *schemas.SessionRecord {
	t.Helper()
	return &schemas.SessionRecord{
		StorageState: schemas.AuthState{Cookies: []schemas.Cookie{{Name: "sso", Value: "tok"}}},
		SavedAt:      time.Now().UTC().Format(time.RFC3339),
		Version:      schemas.SessionSchemaVersion,
	}
}

func TestValidSessionIsReused(t *testing.T) {
	page := newFakePage()
	page.visible[testPortal().IndicatorSelector] = true
	opener := &fakeOpener{page: page}
	store := &fakeStore{record: freshRecord(t)}

	o := NewOrchestrator(opener, store, testPortal(), testSession(), zap.NewNop())
	result, err := o.EnsureAuthenticated(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateAuthenticated, result.State)
	assert.True(t, result.ReusedSession)
	assert.Same(t, browser.Page(page), result.Page)
	require.NotNil(t, opener.receivedState, "saved cookies must be installed into the new page")
	assert.Len(t, opener.receivedState.Cookies, 1)
	assert.Nil(t, store.saved, "a reused session is not re-saved")
	assert.False(t, page.closed, "the authenticated page belongs to the caller")
}

func TestStaleSessionTriggersLogin(t *testing.T) {
	t.Setenv("TEST_LOGIN_USER", "alice")
	t.Setenv("TEST_LOGIN_PASS", "hunter2")

	record := freshRecord(t)
	record.SavedAt = time.Now().Add(-25 * time.Hour).UTC().Format(time.RFC3339)

	page := newFakePage()
	page.visible["#account"] = true
	page.exported = &schemas.AuthState{Cookies: []schemas.Cookie{{Name: "sso", Value: "new"}}}
	store := &fakeStore{record: record}
	portal := testPortal()

	// The indicator appears only after the submit button is clicked,
	// mimicking the portal's post-login redirect.
	clickingPage := &revealOnClick{fakePage: page, reveal: portal.IndicatorSelector}
	opener := &wrappedOpener{inner: clickingPage}

	o := NewOrchestrator(opener, store, portal, testSession(), zap.NewNop())
	result, err := o.EnsureAuthenticated(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateAuthenticated, result.State)
	assert.False(t, result.ReusedSession)
	assert.Nil(t, opener.receivedState, "an expired record must not be installed")
	assert.Equal(t, "alice", page.filled["#account"])
	assert.Equal(t, "hunter2", page.filled["#password"])
	require.NotNil(t, store.saved, "a confirmed login is persisted")
	assert.Equal(t, "new", store.saved.Cookies[0].Value)
}

func TestMissingCredentialsSurfaceAsError(t *testing.T) {
	t.Setenv("TEST_LOGIN_USER", "")
	t.Setenv("TEST_LOGIN_PASS", "")

	page := newFakePage()
	opener := &fakeOpener{page: page}
	store := &fakeStore{}

	o := NewOrchestrator(opener, store, testPortal(), testSession(), zap.NewNop())
	result, err := o.EnsureAuthenticated(context.Background())

	require.Error(t, err)
	var missing *config.MissingError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, StateLoginFailed, result.State)
	assert.ErrorIs(t, result.Cause, err)
	assert.True(t, page.closed, "the page is released on failure")
	assert.Nil(t, store.saved)
}

func TestUnconfirmedLoginFailsWithoutError(t *testing.T) {
	t.Setenv("TEST_LOGIN_USER", "alice")
	t.Setenv("TEST_LOGIN_PASS", "hunter2")

	page := newFakePage()
	page.visible["#account"] = true
	// The indicator never appears, so the login is never confirmed.
	opener := &fakeOpener{page: page}
	store := &fakeStore{}

	o := NewOrchestrator(opener, store, testPortal(), testSession(), zap.NewNop())
	result, err := o.EnsureAuthenticated(context.Background())

	require.NoError(t, err, "a failed login is a state, not a Go error")
	assert.Equal(t, StateLoginFailed, result.State)
	require.Error(t, result.Cause)
	assert.True(t, page.closed)
	assert.Nil(t, store.saved, "nothing is saved without portal confirmation")
}

func TestNoKnownFormFails(t *testing.T) {
	t.Setenv("TEST_LOGIN_USER", "alice")
	t.Setenv("TEST_LOGIN_PASS", "hunter2")

	page := newFakePage() // no form fields visible at all
	opener := &fakeOpener{page: page}
	store := &fakeStore{}

	o := NewOrchestrator(opener, store, testPortal(), testSession(), zap.NewNop())
	result, err := o.EnsureAuthenticated(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateLoginFailed, result.State)
	assert.Contains(t, result.Cause.Error(), "no known login form")
	assert.True(t, page.closed)
}

// revealOnClick makes the indicator visible once the submit button is
// clicked, mimicking the portal's redirect after authentication.
type revealOnClick struct {
	*fakePage
	reveal string
}

func (r *revealOnClick) Click(ctx context.Context, selector string) error {
	if err := r.fakePage.Click(ctx, selector); err != nil {
		return err
	}
	r.visible[r.reveal] = true
	return nil
}

// wrappedOpener hands out an arbitrary page implementation.
type wrappedOpener struct {
	inner         browser.Page
	receivedState *schemas.AuthState
}

func (w *wrappedOpener) NewPage(_ context.Context, state *schemas.AuthState) (browser.Page, error) {
	w.receivedState = state
	return w.inner, nil
}
