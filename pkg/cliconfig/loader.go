package cliconfig

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "caddyadm"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".caddyadmrc.yaml", ".caddyadmrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .caddyadmrc.yaml or .caddyadmrc.yml in the
// current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// GetLocalConfigSearchPaths returns the paths that will be searched for local config.
func GetLocalConfigSearchPaths() []string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	paths := make([]string, len(LocalConfigFileNames))
	for i, name := range LocalConfigFileNames {
		paths[i] = filepath.Join(cwd, name)
	}
	return paths
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // intentionally returning empty string when no config dir is available
		return "", nil
	}
	for _, name := range GlobalConfigFileNames {
		path := filepath.Join(configDir, GlobalConfigDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// GetGlobalConfigSearchPaths returns the paths that will be searched for global config.
func GetGlobalConfigSearchPaths() []string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	paths := make([]string, len(GlobalConfigFileNames))
	for i, name := range GlobalConfigFileNames {
		paths[i] = filepath.Join(configDir, GlobalConfigDir, name)
	}
	return paths
}

// LoadConfigFile loads a CLIConfig from a YAML file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{
			Path:    path,
			Message: err.Error(),
		}
	}

	// A second pass into a raw map records which keys were actually
	// present, so an explicit `verbose: false` survives merging.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err == nil {
		for _, key := range []string{"verbose", "json"} {
			if _, ok := raw[key]; ok {
				cfg.markSet(key)
			}
		}
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// LoadAll loads configuration from all file and environment sources and
// merges them. Precedence: env > local config > global config > defaults.
// Flags and the active context are applied by the CLI on top of this.
//
// A malformed config file does not abort loading: the error is returned
// alongside the config merged from the remaining sources, so callers can
// warn and continue.
func LoadAll() (*CLIConfig, error) {
	cfg := NewDefault()
	var loadErr error

	if globalPath, err := FindGlobalConfig(); err == nil && globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			loadErr = err
		} else {
			MergeConfig(cfg, globalCfg, SourceGlobal)
		}
	}

	if localPath, err := FindLocalConfig(); err == nil && localPath != "" {
		localCfg, err := LoadConfigFile(localPath)
		if err != nil {
			loadErr = err
		} else {
			MergeConfig(cfg, localCfg, SourceLocal)
		}
	}

	LoadEnvConfig(cfg)

	return cfg, loadErr
}
