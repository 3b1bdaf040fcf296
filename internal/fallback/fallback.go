// File: internal/fallback/fallback.go

// Package fallback resolves values from a live page by walking an ordered
// list of extraction strategies. Internal consoles re-roll their DOM class
// names on every frontend deploy, so no single selector is trusted; each
// strategy encodes one known page shape and the resolver takes the first
// one that structurally succeeds.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound reports that every candidate strategy was exhausted without a
// structural match. Callers treat it as "the page layout changed", distinct
// from timeouts and configuration errors.
var ErrNotFound = errors.New("fallback: no candidate strategy matched")

// Page is the slice of browser surface the strategies need. The full page
// implementation lives in internal/browser; keeping the interface local lets
// tests script page behavior without a Chrome process.
type Page interface {
	// WaitVisible blocks until the selector is visible or the timeout lapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Text returns the trimmed text content of the first matching node.
	Text(ctx context.Context, selector string) (string, error)
	// TextAll returns the trimmed text content of every matching node, in
	// document order.
	TextAll(ctx context.Context, selector string) ([]string, error)
	// Rows returns the cell texts of every row matching rowSelector, each row
	// split by cellSelector.
	Rows(ctx context.Context, rowSelector, cellSelector string) ([][]string, error)
}

// Strategy is one way of pulling a value out of the page.
type Strategy interface {
	// Name identifies the strategy in logs and results.
	Name() string
	// Extract attempts the extraction. A non-nil error means this candidate
	// failed structurally and the resolver should try the next one.
	Extract(ctx context.Context, page Page) (string, error)
}

// Result carries the resolved value and which candidate produced it.
type Result struct {
	Value    string
	Strategy string
}

// Resolve walks candidates in order and returns the first successful
// extraction. Each candidate gets its own deadline of perCandidate so a hung
// selector wait cannot starve the ones behind it. Failures are logged at
// debug and swallowed; only full exhaustion surfaces, as ErrNotFound.
//
// An empty candidate list is a programming error, not a page condition, and
// panics.
func Resolve(ctx context.Context, log *zap.Logger, page Page, perCandidate time.Duration, candidates ...Strategy) (Result, error) {
	if len(candidates) == 0 {
		panic("fallback: Resolve called with no candidates")
	}
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		attemptCtx, cancel := context.WithTimeout(ctx, perCandidate)
		value, err := c.Extract(attemptCtx, page)
		cancel()
		if err != nil {
			log.Debug("candidate strategy failed",
				zap.String("strategy", c.Name()),
				zap.Int("position", i),
				zap.Error(err),
			)
			continue
		}
		log.Debug("candidate strategy matched",
			zap.String("strategy", c.Name()),
			zap.Int("position", i),
		)
		return Result{Value: value, Strategy: c.Name()}, nil
	}
	return Result{}, fmt.Errorf("%w after %d candidates", ErrNotFound, len(candidates))
}
