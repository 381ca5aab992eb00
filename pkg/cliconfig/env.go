package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvAdminURL  = "CADDYADM_ADMIN_URL"
	EnvContext   = "CADDYADM_CONTEXT"
	EnvBasicAuth = "CADDYADM_BASIC_AUTH"
	EnvTimeout   = "CADDYADM_TIMEOUT"
	EnvLogLevel  = "CADDYADM_LOG_LEVEL"
	EnvLogFormat = "CADDYADM_LOG_FORMAT"
	EnvVerbose   = "CADDYADM_VERBOSE"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	// CADDYADM_ADMIN_URL
	if v := os.Getenv(EnvAdminURL); v != "" {
		cfg.AdminURL = v
		cfg.Sources["adminUrl"] = SourceEnv
	}

	// CADDYADM_TIMEOUT
	if v := os.Getenv(EnvTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = timeout
			cfg.Sources["timeout"] = SourceEnv
		}
	}

	// CADDYADM_LOG_LEVEL
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}

	// CADDYADM_LOG_FORMAT
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}

	// CADDYADM_VERBOSE
	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
		cfg.Sources["verbose"] = SourceEnv
		cfg.markSet("verbose")
	}
}

// GetAdminURLFromEnv returns the admin URL from environment variable.
// Returns empty string if not set.
func GetAdminURLFromEnv() string {
	return os.Getenv(EnvAdminURL)
}

// GetContextFromEnv returns the context name from environment variable.
// Returns empty string if not set.
func GetContextFromEnv() string {
	return os.Getenv(EnvContext)
}

// GetBasicAuthFromEnv returns credentials from CADDYADM_BASIC_AUTH, which
// holds a "user:password" pair. Returns ok=false if the variable is unset
// or malformed.
func GetBasicAuthFromEnv() (user, password string, ok bool) {
	v := os.Getenv(EnvBasicAuth)
	if v == "" {
		return "", "", false
	}
	for i := 0; i < len(v); i++ {
		if v[i] == ':' {
			return v[:i], v[i+1:], true
		}
	}
	return "", "", false
}
