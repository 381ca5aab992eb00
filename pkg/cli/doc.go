// Package cli provides the command-line interface for caddyadm.
//
// The cli package implements all CLI commands for driving a Caddy server
// through its admin API:
//   - load: Push a full configuration (Caddyfile or JSON) to the server
//   - adapt: Convert a Caddyfile to its JSON form without applying it
//   - get: Read the configuration (or any sub-path) from the server
//   - set / create / update: Write configuration values at a path
//   - delete: Remove a configuration value at a path
//   - tag: Attach an @id handle to a configuration object
//   - stop: Gracefully shut down the server
//   - ca: Inspect the managed PKI (ca info, ca certs)
//   - upstreams: Show reverse proxy upstream health
//   - context: Manage named admin endpoints (show, use, add, list, remove)
//   - init: Create a starter .caddyadmrc.yaml and default context
//   - version: Show caddyadm version
//
// Commands communicate with the running server via the admin API. The
// endpoint is resolved from (in order) the --admin-url flag, the
// CADDYADM_ADMIN_URL environment variable, the active context, config
// files, and finally the default http://localhost:2019.
//
// Config paths use slash notation mirroring the JSON document structure:
//
//	caddyadm get apps/http/servers/srv0
//	caddyadm set apps/http/servers/srv0/listen --data '[":8080"]'
//	caddyadm get id/my-handler
//
// Usage:
//
//	caddyadm load Caddyfile
//	caddyadm load config.json --format json
//	caddyadm load Caddyfile --watch
//	caddyadm adapt Caddyfile --pretty
//	caddyadm get apps/http --query '$.servers.srv0.listen[0]'
//	caddyadm stop
//	caddyadm ca info
//	caddyadm upstreams
//	caddyadm context add prod --admin-url https://caddy.example.com:2019 --use
package cli
