package cliconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caddyadm/caddyadm/pkg/caddy"
)

const (
	// ContextConfigFileName is the name of the context config file.
	ContextConfigFileName = "contexts.json"

	// ContextConfigVersion is the current context config schema version.
	ContextConfigVersion = 1

	// DefaultContextName is the name of the default context.
	DefaultContextName = "local"
)

// Context represents a named Caddy admin endpoint.
type Context struct {
	// AdminURL is the base URL of the admin endpoint.
	AdminURL string `json:"adminUrl"`

	// Username and Password are optional HTTP basic auth credentials.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// Description is an optional human-readable note.
	Description string `json:"description,omitempty"`

	// TLSInsecure skips TLS certificate verification for https endpoints.
	TLSInsecure bool `json:"tlsInsecure,omitempty"`
}

// ContextConfig holds the set of named contexts and the current selection.
// It is persisted to contexts.json in the user config directory.
type ContextConfig struct {
	Version        int                 `json:"version"`
	CurrentContext string              `json:"currentContext"`
	Contexts       map[string]*Context `json:"contexts"`

	// synthesized is true when no contexts.json exists and this config
	// only carries the built-in default context. A synthesized context
	// ranks as a default in URL resolution, below config files.
	synthesized bool
}

// Synthesized reports whether this config is the built-in default rather
// than one read from disk.
func (c *ContextConfig) Synthesized() bool {
	return c.synthesized
}

// NewDefaultContextConfig creates a context config with a single "local"
// context pointing at the default admin URL.
func NewDefaultContextConfig() *ContextConfig {
	return &ContextConfig{
		Version:        ContextConfigVersion,
		CurrentContext: DefaultContextName,
		Contexts: map[string]*Context{
			DefaultContextName: {
				AdminURL:    caddy.DefaultAdminURL,
				Description: "Local Caddy instance",
			},
		},
		synthesized: true,
	}
}

// GetContextConfigPath returns the path to the context config file.
func GetContextConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(configDir, GlobalConfigDir, ContextConfigFileName), nil
}

// LoadContextConfig loads the context config from disk. If the file does
// not exist, it returns the default config without writing it.
func LoadContextConfig() (*ContextConfig, error) {
	path, err := GetContextConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefaultContextConfig(), nil
		}
		return nil, fmt.Errorf("failed to read context config: %w", err)
	}

	var cfg ContextConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse context config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	return &cfg, nil
}

// SaveContextConfig writes the context config to disk, creating the config
// directory if needed. The file is written with 0600 permissions since it
// may contain credentials.
func SaveContextConfig(cfg *ContextConfig) error {
	path, err := GetContextConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode context config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write context config: %w", err)
	}
	return nil
}

// GetCurrentContext returns the currently selected context, or nil if the
// current name does not exist.
func (c *ContextConfig) GetCurrentContext() *Context {
	if c.CurrentContext == "" {
		return nil
	}
	return c.Contexts[c.CurrentContext]
}

// GetContext returns the named context.
func (c *ContextConfig) GetContext(name string) (*Context, bool) {
	ctx, ok := c.Contexts[name]
	return ctx, ok
}

// SetCurrentContext switches the current context to the named one.
func (c *ContextConfig) SetCurrentContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	c.CurrentContext = name
	return nil
}

// AddContext adds a new named context. Adding a name that already exists
// is an error.
func (c *ContextConfig) AddContext(name string, ctx *Context) error {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*Context)
	}
	if _, ok := c.Contexts[name]; ok {
		return fmt.Errorf("context %q already exists", name)
	}
	c.Contexts[name] = ctx
	return nil
}

// RemoveContext deletes the named context. The current context cannot be
// removed.
func (c *ContextConfig) RemoveContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	if name == c.CurrentContext {
		return fmt.Errorf("cannot remove the current context %q (switch first)", name)
	}
	delete(c.Contexts, name)
	return nil
}

// ResolveContext returns the active context and its name. The name is
// taken from the explicit argument (usually the --context flag), then the
// CADDYADM_CONTEXT environment variable, then the stored current context.
// An explicitly requested context that does not exist is an error; a
// missing current context just returns nil.
func (c *ContextConfig) ResolveContext(name string) (*Context, string, error) {
	requested := name
	if requested == "" {
		requested = GetContextFromEnv()
	}
	if requested != "" {
		ctx, ok := c.Contexts[requested]
		if !ok {
			return nil, "", fmt.Errorf("context %q does not exist", requested)
		}
		return ctx, requested, nil
	}
	return c.GetCurrentContext(), c.CurrentContext, nil
}

// GetAdminURL returns the admin URL with precedence:
// environment > current context > file config > default. A synthesized
// default context does not count as a configured context here.
func (c *ContextConfig) GetAdminURL(fileCfg *CLIConfig) string {
	if v := GetAdminURLFromEnv(); v != "" {
		return v
	}
	if ctx := c.GetCurrentContext(); ctx != nil && ctx.AdminURL != "" && !c.synthesized {
		return ctx.AdminURL
	}
	if fileCfg != nil && fileCfg.AdminURL != "" {
		return fileCfg.AdminURL
	}
	return caddy.DefaultAdminURL
}

// ResolveAdminURL returns the admin URL for a CLI invocation, applying the
// full precedence chain: flag > environment > active context > config
// files > default. Load failures fall through to the next source.
func ResolveAdminURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := GetAdminURLFromEnv(); v != "" {
		return v
	}
	if ctxCfg, err := LoadContextConfig(); err == nil && !ctxCfg.Synthesized() {
		if ctx, _, err := ctxCfg.ResolveContext(""); err == nil && ctx != nil && ctx.AdminURL != "" {
			return ctx.AdminURL
		}
	}
	if cfg, _ := LoadAll(); cfg != nil && cfg.Sources["adminUrl"] != SourceDefault {
		return cfg.AdminURL
	}
	return caddy.DefaultAdminURL
}
