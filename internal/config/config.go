// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. It is constructed once
// at process start and passed explicitly into every component.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Portal  PortalConfig  `mapstructure:"portal" yaml:"portal"`
	Query   QueryConfig   `mapstructure:"query" yaml:"query"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the driven browser instance.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	ViewportWidth     int           `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight    int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	SelectorTimeout   time.Duration `mapstructure:"selector_timeout" yaml:"selector_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// SessionConfig locates the persisted session record and bounds its age.
type SessionConfig struct {
	Path        string `mapstructure:"path" yaml:"path"`
	MaxAgeHours int    `mapstructure:"max_age_hours" yaml:"max_age_hours"`
}

// MaxAge returns the session expiry window as a duration.
func (s SessionConfig) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeHours) * time.Hour
}

// PortalConfig describes the SSO portal the login orchestrator drives.
// Username and Password are never read from the config file; they come from
// CLI flags or the environment variables named by UsernameEnv/PasswordEnv.
type PortalConfig struct {
	LoginURL          string        `mapstructure:"login_url" yaml:"login_url"`
	CheckURL          string        `mapstructure:"check_url" yaml:"check_url"`
	IndicatorSelector string        `mapstructure:"indicator_selector" yaml:"indicator_selector"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	LoginTimeout      time.Duration `mapstructure:"login_timeout" yaml:"login_timeout"`
	UsernameEnv       string        `mapstructure:"username_env" yaml:"username_env"`
	PasswordEnv       string        `mapstructure:"password_env" yaml:"password_env"`
	Username          string        `mapstructure:"-" yaml:"-"`
	Password          string        `mapstructure:"-" yaml:"-"`
}

// QueryConfig carries the default lookup filters for the query commands.
type QueryConfig struct {
	PID       string        `mapstructure:"pid" yaml:"pid"`
	SignName  string        `mapstructure:"sign_name" yaml:"sign_name"`
	TimeRange string        `mapstructure:"time_range" yaml:"time_range"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// HistoryConfig configures the local query-history log.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "consolepilot")
	v.SetDefault("logger.log_file", "consolepilot.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	// Headless defaults to false: the interactive login flow may need a human
	// to clear a second factor on first run.
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 1100)
	v.SetDefault("browser.ignore_tls_errors", true)
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.selector_timeout", "10s")
	v.SetDefault("browser.post_load_wait", "2s")

	// -- Session --
	v.SetDefault("session.path", "session/consolepilot_session.json")
	v.SetDefault("session.max_age_hours", 24)

	// -- Portal --
	v.SetDefault("portal.login_url", "https://login.alibaba-inc.com/ssoLogin.htm")
	v.SetDefault("portal.check_url", "https://login.alibaba-inc.com/ssoLogin.htm")
	v.SetDefault("portal.indicator_selector", `//h2[contains(., "Welcome")]`)
	v.SetDefault("portal.probe_timeout", "5s")
	v.SetDefault("portal.login_timeout", "30s")
	v.SetDefault("portal.username_env", "SSO_USERNAME")
	v.SetDefault("portal.password_env", "SSO_PASSWORD")

	// -- Query --
	v.SetDefault("query.time_range", "30天")
	v.SetDefault("query.timeout", "30s")

	// -- History --
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "session/history.db")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with our own defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewFromViper builds and validates a configuration from a viper instance.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Session.Path == "" {
		return fmt.Errorf("session.path is a required configuration field")
	}
	if c.Session.MaxAgeHours <= 0 {
		return fmt.Errorf("session.max_age_hours must be a positive integer")
	}
	if c.Portal.LoginURL == "" || c.Portal.CheckURL == "" {
		return fmt.Errorf("portal.login_url and portal.check_url are required")
	}
	if c.Portal.IndicatorSelector == "" {
		return fmt.Errorf("portal.indicator_selector is required")
	}
	if c.Browser.SelectorTimeout <= 0 {
		return fmt.Errorf("browser.selector_timeout must be a positive duration")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}
