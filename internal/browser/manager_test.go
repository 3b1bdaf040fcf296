// File: internal/browser/manager_test.go
package browser

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/internal/config"
)

func TestBuildAllocatorOptionsKeepsDefaultsAndAppendsOverrides(t *testing.T) {
	m := &Manager{
		logger: zap.NewNop(),
		cfg: config.BrowserConfig{
			Headless:       true,
			ViewportWidth:  1440,
			ViewportHeight: 900,
		},
	}

	opts := m.buildAllocatorOptions()

	// The chromedp defaults are kept in full; overrides like the
	// enable-automation suppression and the viewport come after them so
	// they win.
	require.Greater(t, len(opts), len(chromedp.DefaultExecAllocatorOptions))
	assert.GreaterOrEqual(t, len(opts)-len(chromedp.DefaultExecAllocatorOptions), 7)
}

func TestBuildAllocatorOptionsParsesExtraArgs(t *testing.T) {
	base := &Manager{logger: zap.NewNop(), cfg: config.BrowserConfig{}}
	withArgs := &Manager{
		logger: zap.NewNop(),
		cfg:    config.BrowserConfig{Args: []string{"--lang=en-US", "--mute-audio"}},
	}

	assert.Equal(t, len(base.buildAllocatorOptions())+2, len(withArgs.buildAllocatorOptions()))
}

func TestBuildAllocatorOptionsExecPath(t *testing.T) {
	base := &Manager{logger: zap.NewNop(), cfg: config.BrowserConfig{}}
	withPath := &Manager{
		logger: zap.NewNop(),
		cfg:    config.BrowserConfig{ExecPath: "/usr/bin/chromium"},
	}

	assert.Equal(t, len(base.buildAllocatorOptions())+1, len(withPath.buildAllocatorOptions()))
}
