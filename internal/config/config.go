package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the application configuration
type Config struct {
	PlansFile string          `mapstructure:"plans_file" yaml:"plans_file"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
	Rendering RenderingConfig `mapstructure:"rendering" yaml:"rendering"`
	Notify    NotifyConfig    `mapstructure:"notify" yaml:"notify"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// HistoryConfig selects and locates the append-only history store
type HistoryConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`     // "file" or "badger"
	Path      string `mapstructure:"path" yaml:"path"`           // file backend
	Directory string `mapstructure:"directory" yaml:"directory"` // badger backend
}

// RenderingConfig contains page rendering settings
type RenderingConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	WaitStable  time.Duration `mapstructure:"wait_stable" yaml:"wait_stable"`
	WaitFor     string        `mapstructure:"wait_for" yaml:"wait_for"`
	Headless    bool          `mapstructure:"headless" yaml:"headless"`
	BrowserPath string        `mapstructure:"browser_path" yaml:"browser_path"`
	NoBrowser   bool          `mapstructure:"no_browser" yaml:"no_browser"`
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// NotifyConfig contains email notification settings
type NotifyConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	AlwaysNotify bool     `mapstructure:"always_notify" yaml:"always_notify"`
	SMTPServer   string   `mapstructure:"smtp_server" yaml:"smtp_server"`
	SMTPPort     int      `mapstructure:"smtp_port" yaml:"smtp_port"`
	Username     string   `mapstructure:"username" yaml:"username"`
	Password     string   `mapstructure:"password" yaml:"password"`
	From         string   `mapstructure:"from" yaml:"from"`
	To           []string `mapstructure:"to" yaml:"to"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and clamps out-of-range values.
func (c *Config) Validate() error {
	switch c.History.Backend {
	case "":
		c.History.Backend = DefaultHistoryBackend
	case "file", "badger":
	default:
		return fmt.Errorf("invalid history.backend: %q", c.History.Backend)
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
	if c.History.Directory == "" {
		c.History.Directory = DefaultHistoryDir()
	}

	if c.Rendering.Timeout < time.Second {
		c.Rendering.Timeout = DefaultRenderTimeout
	}
	if c.Rendering.WaitStable < 0 {
		c.Rendering.WaitStable = DefaultWaitStable
	}

	if c.Notify.Enabled {
		if c.Notify.SMTPServer == "" {
			return fmt.Errorf("notify.smtp_server is required when notifications are enabled")
		}
		if c.Notify.SMTPPort <= 0 {
			c.Notify.SMTPPort = DefaultSMTPPort
		}
		if c.Notify.From == "" {
			return fmt.Errorf("notify.from is required when notifications are enabled")
		}
		if len(c.Notify.To) == 0 {
			return fmt.Errorf("notify.to is required when notifications are enabled")
		}
	}
	return nil
}

// Plan is one tracked floor-plan listing page.
type Plan struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Validate checks a plan entry.
func (p Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	u, err := url.Parse(p.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("plan %q: invalid url %q", p.Name, p.URL)
	}
	return nil
}
