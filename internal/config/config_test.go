// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "consolepilot", cfg.Logger.ServiceName)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 24, cfg.Session.MaxAgeHours)
	assert.Equal(t, 24*time.Hour, cfg.Session.MaxAge())
	assert.Equal(t, "SSO_USERNAME", cfg.Portal.UsernameEnv)
	assert.Equal(t, "SSO_PASSWORD", cfg.Portal.PasswordEnv)
	assert.Equal(t, "30天", cfg.Query.TimeRange)
	assert.True(t, cfg.History.Enabled)
}

func TestConfigValidation(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		cfg := NewDefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing session path", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Session.Path = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.path")
	})

	t.Run("non positive max age", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Session.MaxAgeHours = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.max_age_hours")
	})

	t.Run("missing portal urls", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Portal.CheckURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "portal.login_url and portal.check_url")
	})

	t.Run("history enabled without path", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.History.Path = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "history.path")
	})
}

func TestNewFromViper(t *testing.T) {
	yaml := []byte(`
browser:
  headless: true
  selector_timeout: 4s
session:
  path: /tmp/sess.json
  max_age_hours: 12
query:
  pid: "100000103722927"
`)

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewReader(yaml)))

	cfg, err := NewFromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 4*time.Second, cfg.Browser.SelectorTimeout)
	assert.Equal(t, "/tmp/sess.json", cfg.Session.Path)
	assert.Equal(t, 12, cfg.Session.MaxAgeHours)
	assert.Equal(t, "100000103722927", cfg.Query.PID)
	// Defaults survive a partial file.
	assert.Equal(t, "30天", cfg.Query.TimeRange)
}

func TestMissingError(t *testing.T) {
	err := NewMissingError(
		MissingSetting{Name: "identity", Sources: []string{"--username", "env SSO_USERNAME"}},
		MissingSetting{Name: "secret", Sources: []string{"--password", "env SSO_PASSWORD"}},
	)

	msg := err.Error()
	assert.Contains(t, msg, "identity")
	assert.Contains(t, msg, "SSO_USERNAME")
	assert.Contains(t, msg, "secret")
	assert.Contains(t, msg, "SSO_PASSWORD")
}
