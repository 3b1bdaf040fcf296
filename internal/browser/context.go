// File: internal/browser/context.go
package browser

import (
	"context"
	"sync"
)

// combineContext derives a context from primary that is additionally
// canceled when secondary ends. chromedp actions must run on the tab's
// context, but callers still expect their own deadline to cut the work
// short; this bridges the two.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(primary)
	stop := make(chan struct{})
	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-ctx.Done():
		case <-stop:
		}
	}()
	var once sync.Once
	return ctx, func() {
		once.Do(func() { close(stop) })
		cancel()
	}
}
