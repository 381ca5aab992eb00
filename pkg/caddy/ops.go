package caddy

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Load replaces the entire Caddy configuration (POST /load). The config
// may be a Caddyfile (string or []byte with ContentTypeCaddyfile, the
// default when contentType is empty), pre-encoded JSON (json.RawMessage
// with ContentTypeJSON), or any JSON-encodable value.
func Load[T any](ctx context.Context, c *Client, config any, contentType string) Result[T] {
	if contentType == "" {
		contentType = ContentTypeCaddyfile
	}
	return Do[T](ctx, c, http.MethodPost, "/load", config, contentType)
}

// Adapt converts a config document to Caddy JSON without loading it
// (POST /adapt). Content type selection works as in Load.
func Adapt[T any](ctx context.Context, c *Client, config any, contentType string) Result[T] {
	if contentType == "" {
		contentType = ContentTypeCaddyfile
	}
	return Do[T](ctx, c, http.MethodPost, "/adapt", config, contentType)
}

// GetConfig reads the config at path (GET /config/{path}). An empty
// path returns the entire configuration. A path beginning with "id/"
// traverses by "@id" tag instead of by structure.
func GetConfig[T any](ctx context.Context, c *Client, path string) Result[T] {
	return Do[T](ctx, c, http.MethodGet, configPath(path), nil, "")
}

// SetConfig sets the config at path (POST /config/{path}), creating
// intermediate objects as needed and appending to arrays.
func SetConfig[T any](ctx context.Context, c *Client, path string, config any) Result[T] {
	return Do[T](ctx, c, http.MethodPost, configPath(path), config, ContentTypeJSON)
}

// CreateConfig creates new config at path (PUT /config/{path}). Into an
// array the value is inserted at the index; an existing object value is
// an error on the remote side.
func CreateConfig[T any](ctx context.Context, c *Client, path string, config any) Result[T] {
	return Do[T](ctx, c, http.MethodPut, configPath(path), config, ContentTypeJSON)
}

// UpdateConfig replaces the existing config at path (PATCH /config/{path}).
func UpdateConfig[T any](ctx context.Context, c *Client, path string, config any) Result[T] {
	return Do[T](ctx, c, http.MethodPatch, configPath(path), config, ContentTypeJSON)
}

// DeleteConfig removes the config at path (DELETE /config/{path}).
func DeleteConfig[T any](ctx context.Context, c *Client, path string) Result[T] {
	return Do[T](ctx, c, http.MethodDelete, configPath(path), nil, "")
}

// Stop gracefully shuts the Caddy process down (POST /stop). The
// process usually exits before a response can be written, so a dropped
// or cancelled exchange counts as success; only an endpoint that never
// accepted the request, or that answered with an error status, is a
// failure.
func (c *Client) Stop(ctx context.Context) Result[string] {
	data, status, err := c.exchange(ctx, http.MethodPost, "/stop", nil, "")
	if err != nil {
		if isShutdownErr(err) {
			return ok("")
		}
		return fail[string]("%v", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fail[string]("%s", errorMessage(http.MethodPost, "/stop", status, data))
	}
	return ok(strings.TrimSpace(string(data)))
}

// CAInfo returns information about a PKI certificate authority
// (GET /pki/ca/{id}). Caddy's default CA has the id "local".
func (c *Client) CAInfo(ctx context.Context, caID string) Result[CA] {
	return Do[CA](ctx, c, http.MethodGet, "/pki/ca/"+url.PathEscape(caID), nil, "")
}

// CACertificates returns a CA's certificate chain as PEM text
// (GET /pki/ca/{id}/certificates).
func (c *Client) CACertificates(ctx context.Context, caID string) Result[string] {
	return Do[string](ctx, c, http.MethodGet, "/pki/ca/"+url.PathEscape(caID)+"/certificates", nil, "")
}

// Upstreams returns the current status of configured reverse proxy
// upstreams (GET /reverse_proxy/upstreams).
func (c *Client) Upstreams(ctx context.Context) Result[[]Upstream] {
	return Do[[]Upstream](ctx, c, http.MethodGet, "/reverse_proxy/upstreams", nil, "")
}

// ConfigPath joins key segments into a config traversal path, escaping
// each segment so keys containing slashes survive the trip.
func ConfigPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// ByID returns the traversal path for the object tagged "@id": id.
func ByID(id string) string {
	return "id/" + url.PathEscape(id)
}

// configPath builds the wire path for a config traversal. Paths rooted
// at "id/" address the /id/ endpoint; everything else lives under
// /config/.
func configPath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "/config/"
	}
	if path == "id" || strings.HasPrefix(path, "id/") {
		return "/" + path
	}
	return "/config/" + path
}
