// File: internal/login/orchestrator.go

// Package login decides whether a saved session still works and, when it
// does not, drives the SSO form to mint a fresh one.
package login

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/api/schemas"
	"github.com/xkilldash9x/consolepilot/internal/browser"
	"github.com/xkilldash9x/consolepilot/internal/config"
	"github.com/xkilldash9x/consolepilot/internal/creds"
	"github.com/xkilldash9x/consolepilot/internal/fallback"
	"github.com/xkilldash9x/consolepilot/internal/session"
)

// State labels one step of the authentication flow. States are reported in
// results and logs; callers branch on the terminal ones.
type State string

const (
	StateUnchecked     State = "unchecked"
	StateChecking      State = "checking"
	StateAuthenticated State = "authenticated"
	StateNeedsLogin    State = "needs_login"
	StateLoggingIn     State = "logging_in"
	StateLoginFailed   State = "login_failed"
)

// SessionStore is the slice of the session store the orchestrator needs.
type SessionStore interface {
	Save(state schemas.AuthState) bool
	Load() *schemas.SessionRecord
}

// Result reports the outcome of EnsureAuthenticated. Page is non-nil only
// when State is StateAuthenticated, and the caller owns closing it.
type Result struct {
	State         State
	Page          browser.Page
	ReusedSession bool
	// Cause explains a terminal failure state. It is informational; only
	// configuration problems are also returned as errors.
	Cause error
}

// formLayout is one known shape of the SSO login form.
type formLayout struct {
	name     string
	account  string
	password string
	submit   string
}

// The portal's form markup changes between SSO rollouts; each layout is
// probed in order and the first whose account field is visible wins.
var knownForms = []formLayout{
	{
		name:     "sso classic",
		account:  "#account",
		password: "#password",
		submit:   `//button[contains(., "登 录")]`,
	},
	{
		name:     "havana",
		account:  "#fm-login-id",
		password: "#fm-login-password",
		submit:   `//button[@type="submit"]`,
	},
}

// Orchestrator owns the check-then-login flow.
type Orchestrator struct {
	opener  browser.Opener
	store   SessionStore
	portal  config.PortalConfig
	session config.SessionConfig
	logger  *zap.Logger
}

// NewOrchestrator wires the orchestrator. The opener is typically the
// browser Manager; tests substitute fakes.
func NewOrchestrator(opener browser.Opener, store SessionStore, portal config.PortalConfig, sess config.SessionConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		opener:  opener,
		store:   store,
		portal:  portal,
		session: sess,
		logger:  logger.Named("login"),
	}
}

// EnsureAuthenticated yields an authenticated page, reusing the saved
// session when it is still valid and logging in otherwise. The flow never
// retries internally; a failed login is reported once and the operator
// decides what to do.
//
// Only configuration problems (missing credentials) come back as a non-nil
// error. Every other failure is expressed through Result.State and
// Result.Cause so callers can distinguish "you must fix your setup" from
// "the portal did not cooperate".
func (o *Orchestrator) EnsureAuthenticated(ctx context.Context) (*Result, error) {
	state := StateUnchecked
	o.logger.Debug("Authentication flow starting", zap.String("state", string(state)))

	state = StateChecking
	o.logger.Debug("Probing saved session", zap.String("state", string(state)))
	cached := o.loadCachedState()

	page, err := o.opener.NewPage(ctx, cached)
	if err != nil {
		return &Result{State: StateLoginFailed, Cause: err}, nil
	}

	if o.probeAuthenticated(ctx, page) {
		o.logger.Info("Existing session accepted by the portal", zap.Bool("reused", cached != nil))
		return &Result{State: StateAuthenticated, Page: page, ReusedSession: cached != nil}, nil
	}

	state = StateNeedsLogin
	o.logger.Info("No valid session, login required", zap.String("state", string(state)))

	pair, err := creds.Resolve(o.portal.Username, o.portal.Password, o.portal.UsernameEnv, o.portal.PasswordEnv)
	if err != nil {
		// User-fixable; the only failure worth a Go error.
		_ = page.Close(ctx)
		return &Result{State: StateLoginFailed, Cause: err}, err
	}

	state = StateLoggingIn
	o.logger.Info("Submitting login form", zap.String("state", string(state)))

	if err := o.performLogin(ctx, page, pair); err != nil {
		_ = page.Close(ctx)
		return &Result{State: StateLoginFailed, Cause: err}, nil
	}

	// Persist only after the portal confirmed the session. A save failure
	// degrades the next run but never this one.
	if exported, err := page.ExportAuthState(ctx); err != nil {
		o.logger.Warn("Could not export session state after login", zap.Error(err))
	} else {
		o.store.Save(session.Clean(*exported))
	}

	return &Result{State: StateAuthenticated, Page: page}, nil
}

// loadCachedState returns the saved auth state when the record is still
// within its validity window, nil otherwise.
func (o *Orchestrator) loadCachedState() *schemas.AuthState {
	record := o.store.Load()
	if !session.IsValid(record, o.session.MaxAge()) {
		if record != nil {
			o.logger.Info("Saved session rejected (expired or empty)")
		}
		return nil
	}
	cleaned := session.Clean(record.StorageState)
	return &cleaned
}

// probeAuthenticated navigates to the check URL and looks for the logged-in
// indicator within the probe window. Any failure reads as "not logged in".
func (o *Orchestrator) probeAuthenticated(ctx context.Context, page browser.Page) bool {
	if err := page.Navigate(ctx, o.portal.CheckURL); err != nil {
		o.logger.Debug("Check navigation failed", zap.Error(err))
		return false
	}
	if err := page.WaitVisible(ctx, o.portal.IndicatorSelector, o.portal.ProbeTimeout); err != nil {
		o.logger.Debug("Logged-in indicator not found", zap.Error(err))
		return false
	}
	return true
}

// performLogin drives the SSO form and waits for the logged-in indicator.
func (o *Orchestrator) performLogin(ctx context.Context, page browser.Page, pair creds.Pair) error {
	if err := page.Navigate(ctx, o.portal.LoginURL); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	layout, err := o.detectForm(ctx, page)
	if err != nil {
		return fmt.Errorf("no known login form found: %w", err)
	}
	o.logger.Debug("Login form detected", zap.String("layout", layout.name))

	if err := page.Fill(ctx, layout.account, pair.Identity); err != nil {
		return fmt.Errorf("failed to fill account field: %w", err)
	}
	// Brief pause between fields; the portal's frontend debounces input.
	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := page.Fill(ctx, layout.password, pair.Secret); err != nil {
		return fmt.Errorf("failed to fill password field: %w", err)
	}
	if err := page.Click(ctx, layout.submit); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	if err := page.WaitVisible(ctx, o.portal.IndicatorSelector, o.portal.LoginTimeout); err != nil {
		return fmt.Errorf("portal did not confirm login: %w", err)
	}
	return nil
}

// detectForm probes the known layouts and returns the first whose account
// field is visible.
func (o *Orchestrator) detectForm(ctx context.Context, page browser.Page) (formLayout, error) {
	candidates := make([]fallback.Strategy, 0, len(knownForms))
	for _, form := range knownForms {
		candidates = append(candidates, fallback.ProbeStrategy{Selector: form.account, Label: form.name})
	}
	result, err := fallback.Resolve(ctx, o.logger, page, o.portal.ProbeTimeout, candidates...)
	if err != nil {
		return formLayout{}, err
	}
	for _, form := range knownForms {
		if form.account == result.Value {
			return form, nil
		}
	}
	// Unreachable: the probe only returns selectors it was given.
	return formLayout{}, fmt.Errorf("probe returned unknown selector %q", result.Value)
}
