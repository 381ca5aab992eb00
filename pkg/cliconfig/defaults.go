package cliconfig

import "github.com/caddyadm/caddyadm/pkg/caddy"

// DefaultTimeout is the default per-request timeout in seconds.
const DefaultTimeout = 30

// DefaultLogLevel is the default CLI log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default CLI log format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		AdminURL:  caddy.DefaultAdminURL,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources:   make(map[string]string),
	}

	// Mark all as default source
	cfg.Sources["adminUrl"] = SourceDefault
	cfg.Sources["timeout"] = SourceDefault
	cfg.Sources["logLevel"] = SourceDefault
	cfg.Sources["logFormat"] = SourceDefault

	return cfg
}
