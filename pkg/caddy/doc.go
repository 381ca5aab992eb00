// Package caddy provides a typed client for the Caddy admin API.
//
// The admin API drives a running Caddy instance: loading and adapting
// configuration, reading and mutating parts of the config tree, shutting
// the process down, and inspecting PKI and reverse-proxy state.
//
// Endpoints:
//
//	POST   /load                      - Set the entire configuration
//	POST   /stop                      - Stop the Caddy process
//	GET    /config/{path}             - Read config at a path
//	POST   /config/{path}             - Set config at a path
//	PUT    /config/{path}             - Create config at a path
//	PATCH  /config/{path}             - Replace config at a path
//	DELETE /config/{path}             - Remove config at a path
//	POST   /adapt                     - Adapt a config document to JSON
//	GET    /pki/ca/{id}               - PKI CA information
//	GET    /pki/ca/{id}/certificates  - PKI CA certificate chain (PEM)
//	GET    /reverse_proxy/upstreams   - Reverse proxy upstream status
//
// Every operation returns a Result rather than an error: transport
// failures, non-2xx statuses, decode failures, and cancellation all
// surface as failure Results, so call sites branch on one value.
// The response shape is chosen per call via a type parameter; string,
// []byte, and json.RawMessage receive the body verbatim.
//
// Usage:
//
//	c := caddy.New("http://localhost:2019")
//
//	r := caddy.Load[string](ctx, c, caddyfile, caddy.ContentTypeCaddyfile)
//	if r.Failed() {
//		return r.Err()
//	}
//
//	cfg := caddy.GetConfig[map[string]any](ctx, c, "apps/http")
//	ups := c.Upstreams(ctx)
package caddy
