package cliconfig

import (
	"fmt"
	"net/url"
)

// CLIConfig represents the complete configuration for the caddyadm CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Active context from contexts.json
// 4. Local config file (.caddyadmrc.yaml in current directory)
// 5. Global config file (~/.config/caddyadm/config.yaml)
// 6. Default values (lowest priority)
type CLIConfig struct {
	// Admin client settings
	AdminURL string `yaml:"adminUrl" json:"adminUrl"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // seconds

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Output settings
	Verbose bool `yaml:"verbose" json:"verbose"`
	JSON    bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields marks fields explicitly present in this layer, so a
	// false boolean can still override a true one during merging.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceContext = "context"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Validate checks that the configuration values are usable.
func (c *CLIConfig) Validate() error {
	if c.AdminURL != "" {
		u, err := url.Parse(c.AdminURL)
		if err != nil {
			return fmt.Errorf("adminUrl %q is not a valid URL: %w", c.AdminURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("adminUrl %q must use http or https", c.AdminURL)
		}
	}
	if c.Timeout < 0 || c.Timeout > 3600 {
		return fmt.Errorf("timeout %d is out of range (0-3600)", c.Timeout)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	return nil
}

// markSet records that a field was explicitly provided by this layer.
func (c *CLIConfig) markSet(field string) {
	if c.SetFields == nil {
		c.SetFields = make(map[string]bool)
	}
	c.SetFields[field] = true
}
