// File: internal/browser/page.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/api/schemas"
	"github.com/xkilldash9x/consolepilot/internal/config"
)

var _ Page = (*chromePage)(nil)

// chromePage drives a single tab over CDP.
type chromePage struct {
	id     string
	logger *zap.Logger
	cfg    config.BrowserConfig

	sessionCtx    context.Context
	sessionCancel context.CancelFunc

	isClosed bool
	mu       sync.Mutex
}

func newChromePage(allocCtx context.Context, logger *zap.Logger, cfg config.BrowserConfig) (*chromePage, error) {
	id := uuid.New().String()
	sessionCtx, cancel := chromedp.NewContext(allocCtx)

	p := &chromePage{
		id:            id,
		logger:        logger.With(zap.String("page_id", id[:8])),
		cfg:           cfg,
		sessionCtx:    sessionCtx,
		sessionCancel: cancel,
	}

	// Materialize the tab now so cookie installation has a target.
	if err := chromedp.Run(sessionCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create tab: %w", err)
	}
	return p, nil
}

// run executes chromedp actions on the tab's context while honoring the
// caller's deadline.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	p.mu.Lock()
	if p.isClosed {
		p.mu.Unlock()
		return fmt.Errorf("page is closed")
	}
	sessionCtx := p.sessionCtx
	p.mu.Unlock()

	runCtx, cancel := combineContext(sessionCtx, ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		// Surface the caller's deadline rather than the derived cancellation.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// Navigate loads the URL, waits for the body, then settles for the
// configured post-load wait so async dashboards finish rendering.
func (p *chromePage) Navigate(ctx context.Context, url string) error {
	p.logger.Debug("Navigating", zap.String("url", url))
	if p.cfg.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.NavigationTimeout)
		defer cancel()
	}
	return p.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(p.cfg.PostLoadWait),
	)
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	// BySearch accepts both CSS selectors and XPath expressions.
	return p.run(ctx, chromedp.WaitVisible(selector, chromedp.BySearch))
}

func (p *chromePage) Text(ctx context.Context, selector string) (string, error) {
	var out string
	if err := p.run(ctx, chromedp.Text(selector, &out, chromedp.BySearch)); err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// collectScript resolves a selector to nodes in page JS. Expressions that
// start with "/" or "(" are treated as XPath, everything else as CSS.
const collectScript = `
function __cpCollect(sel, root) {
    root = root || document;
    if (sel.charAt(0) === '/' || sel.charAt(0) === '(') {
        var it = document.evaluate(sel, root, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
        var out = [];
        for (var i = 0; i < it.snapshotLength; i++) { out.push(it.snapshotItem(i)); }
        return out;
    }
    return Array.prototype.slice.call(root.querySelectorAll(sel));
}`

func (p *chromePage) TextAll(ctx context.Context, selector string) ([]string, error) {
	script := collectScript + fmt.Sprintf(`
__cpCollect(%q).map(function(n) { return (n.textContent || '').trim(); });`, selector)

	var out []string
	if err := p.run(ctx, chromedp.Evaluate(script, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *chromePage) Rows(ctx context.Context, rowSelector, cellSelector string) ([][]string, error) {
	script := collectScript + fmt.Sprintf(`
__cpCollect(%q).map(function(row) {
    return __cpCollect(%q, row).map(function(c) { return (c.textContent || '').trim(); });
});`, rowSelector, cellSelector)

	var out [][]string
	if err := p.run(ctx, chromedp.Evaluate(script, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *chromePage) Fill(ctx context.Context, selector, value string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.BySearch),
		chromedp.Clear(selector, chromedp.BySearch),
		chromedp.SendKeys(selector, value, chromedp.BySearch),
	)
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.BySearch),
		chromedp.Click(selector, chromedp.BySearch),
	)
}

// Frame locates the iframe whose URL contains every given substring and
// returns a Page scoped to it. Out-of-process iframes register as separate
// targets, so the lookup polls the target list until the ctx deadline.
func (p *chromePage) Frame(ctx context.Context, urlSubstrings ...string) (Page, error) {
	if len(urlSubstrings) == 0 {
		return nil, fmt.Errorf("frame lookup requires at least one URL substring")
	}

	p.mu.Lock()
	if p.isClosed {
		p.mu.Unlock()
		return nil, fmt.Errorf("page is closed")
	}
	sessionCtx := p.sessionCtx
	p.mu.Unlock()

	for {
		targets, err := chromedp.Targets(sessionCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate targets: %w", err)
		}
		for _, t := range targets {
			if t.Type != "iframe" {
				continue
			}
			if !containsAll(t.URL, urlSubstrings) {
				continue
			}
			frameCtx, cancel := chromedp.NewContext(sessionCtx, chromedp.WithTargetID(t.TargetID))
			if err := chromedp.Run(frameCtx); err != nil {
				cancel()
				return nil, fmt.Errorf("failed to attach to frame %s: %w", t.TargetID, err)
			}
			p.logger.Debug("Attached to frame", zap.String("url", t.URL))
			return &chromePage{
				id:            uuid.New().String(),
				logger:        p.logger.With(zap.String("frame", t.URL)),
				cfg:           p.cfg,
				sessionCtx:    frameCtx,
				sessionCancel: cancel,
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("frame matching %v not found: %w", urlSubstrings, ctx.Err())
		case <-sessionCtx.Done():
			return nil, sessionCtx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func containsAll(s string, substrings []string) bool {
	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// ExportAuthState captures the tab's cookies, including HttpOnly ones, as a
// portable auth state.
func (p *chromePage) ExportAuthState(ctx context.Context) (*schemas.AuthState, error) {
	var cookies []*network.Cookie
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return authStateFromCookies(cookies), nil
}

func authStateFromCookies(cookies []*network.Cookie) *schemas.AuthState {
	state := &schemas.AuthState{Cookies: make([]schemas.Cookie, 0, len(cookies))}
	for _, c := range cookies {
		state.Cookies = append(state.Cookies, schemas.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return state
}

// installCookies writes the saved cookies into the browser before any
// navigation, so the first page load already carries the session.
func (p *chromePage) installCookies(ctx context.Context, cookies []schemas.Cookie) error {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		if c.SameSite != "" {
			param.SameSite = network.CookieSameSite(c.SameSite)
		}
		if c.Expires > 0 {
			expiry := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			param.Expires = &expiry
		}
		params = append(params, param)
	}

	p.logger.Debug("Installing session cookies", zap.Int("count", len(params)))
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
}

// Close tears the tab down. Safe to call more than once.
func (p *chromePage) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.isClosed {
		p.mu.Unlock()
		return nil
	}
	p.isClosed = true
	sessionCancel := p.sessionCancel
	sessionCtx := p.sessionCtx
	p.mu.Unlock()

	if sessionCancel != nil {
		sessionCancel()
	}
	if sessionCtx == nil {
		return nil
	}

	// Wait for the tab to confirm termination, bounded by the caller.
	waitCtx, cancelWait := context.WithTimeout(ctx, 10*time.Second)
	defer cancelWait()
	select {
	case <-sessionCtx.Done():
		return nil
	case <-waitCtx.Done():
		p.logger.Warn("Timed out waiting for tab to close")
		return waitCtx.Err()
	}
}
