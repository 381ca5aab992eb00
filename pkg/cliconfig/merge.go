package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.AdminURL != "" {
		target.AdminURL = source.AdminURL
		target.Sources["adminUrl"] = sourceType
	}
	if source.Timeout != 0 {
		target.Timeout = source.Timeout
		target.Sources["timeout"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	// For booleans, checking `if source.X` cannot detect an explicit false.
	// SetFields (populated during file and env loading) records whether a
	// boolean was explicitly present in the source. If SetFields is nil
	// (e.g., config built programmatically), fall back to only merging
	// true values.
	if boolIsSet(source, "verbose") {
		target.Verbose = source.Verbose
		target.Sources["verbose"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config. When SetFields is available,
// it checks for the key's presence. Otherwise it treats true as "set",
// which cannot detect an explicit false but is safe for programmatic configs.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "verbose":
		return cfg.Verbose
	case "json":
		return cfg.JSON
	}
	return false
}
