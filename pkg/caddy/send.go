package caddy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// Content types understood by Caddy's config adapters. Load and Adapt
// default to ContentTypeCaddyfile when none is given.
const (
	ContentTypeCaddyfile = "text/caddyfile"
	ContentTypeJSON      = "application/json"
)

// Do performs one admin API exchange and normalizes the outcome into a
// Result. It backs every operation in this package and is exported for
// admin endpoints the package does not wrap (plugins add their own).
//
// The body travels byte-for-byte when contentType is a text type and
// body is a string or []byte; any other body is JSON-encoded, with
// contentType defaulting to application/json. A nil body sends no
// payload. Responses decode into T: an empty body yields T's zero
// value, a string, []byte, or json.RawMessage T receives the body
// verbatim, and any other T is JSON-decoded.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, contentType string) Result[T] {
	data, status, err := c.exchange(ctx, method, path, body, contentType)
	if err != nil {
		return fail[T]("%v", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fail[T]("%s", errorMessage(method, path, status, data))
	}
	return decode[T](data)
}

// exchange runs the HTTP round trip and returns the raw body and status.
// Status handling is the caller's concern; only transport and encoding
// problems surface as errors.
func (c *Client) exchange(ctx context.Context, method, path string, body any, contentType string) ([]byte, int, error) {
	payload, contentType, err := encodeBody(body, contentType)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.basicAuth {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("admin request failed", "method", method, "path", path, "error", err)
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	c.logger.Debug("admin request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return data, resp.StatusCode, nil
}

// encodeBody prepares the request payload. A string or []byte paired
// with a text content type passes through untouched; everything else is
// JSON-encoded (json.RawMessage marshals to its own content, so
// pre-encoded JSON needs no special case).
func encodeBody(body any, contentType string) ([]byte, string, error) {
	if body == nil {
		return nil, contentType, nil
	}
	if contentType == "" {
		contentType = ContentTypeJSON
	}
	if strings.HasPrefix(contentType, "text/") {
		switch b := body.(type) {
		case string:
			return []byte(b), contentType, nil
		case []byte:
			return b, contentType, nil
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// decode turns a response body into a success Result. An all-whitespace
// body yields T's zero value; raw textual target types receive the body
// verbatim; anything else is JSON-decoded, and a decode error is a
// failure.
func decode[T any](data []byte) Result[T] {
	var value T
	if strings.TrimSpace(string(data)) == "" {
		return ok(value)
	}
	switch v := any(&value).(type) {
	case *string:
		*v = string(data)
		return ok(value)
	case *[]byte:
		*v = data
		return ok(value)
	case *json.RawMessage:
		*v = json.RawMessage(data)
		return ok(value)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return fail[T]("failed to decode response: %v", err)
	}
	return ok(value)
}

// errorMessage builds the failure message for a non-2xx response,
// preferring the {"error": "..."} body Caddy sends.
func errorMessage(method, path string, status int, body []byte) string {
	var errResp errorBody
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Sprintf("%s %s: %s (status %d)", method, path, errResp.Error, status)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Sprintf("%s %s: %s (status %d)", method, path, msg, status)
	}
	return fmt.Sprintf("%s %s: status %d", method, path, status)
}

// isShutdownErr reports whether err is the connection dying because the
// remote process went away before writing a response. Stop treats these
// as its success signal. Connection refused is not among them: an
// endpoint that never accepted the request was not stopped.
func isShutdownErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
