// Package cliconfig provides configuration types and loading for the caddyadm CLI.
//
// It implements a layered configuration system with the following precedence
// (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (CADDYADM_* prefix)
//  3. Named context from contexts.json (selected by flag, env, or current)
//  4. Local config file (.caddyadmrc.yaml in current directory)
//  5. Global config file (~/.config/caddyadm/config.yaml)
//  6. Default values
//
// The package handles configuration discovery, loading, merging, and validation.
// It tracks the source of each configuration value for debugging purposes.
//
// Key types:
//
//   - CLIConfig: Complete configuration structure for the CLI
//   - Context: A named admin endpoint with optional credentials
//   - ContextConfig: The set of named contexts persisted to contexts.json
//
// Key functions:
//
//   - LoadAll: Loads and merges configuration from all file and env sources
//   - ResolveAdminURL: Applies the full precedence chain for the admin URL
//   - LoadContextConfig / SaveContextConfig: Persist named contexts
package cliconfig
