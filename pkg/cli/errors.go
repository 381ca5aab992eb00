package cli

import (
	"fmt"
	"strings"

	"github.com/caddyadm/caddyadm/pkg/caddy"
)

// resultError converts a failed result into a CLI error, attaching a
// connection hint when the admin endpoint looks unreachable.
func resultError[T any](c *caddy.Client, r caddy.Result[T]) error {
	err := r.Err()
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		return fmt.Errorf(`%s

Suggestions:
  • Check that Caddy is running and its admin API is enabled
  • Verify the admin URL (currently %s) with: caddyadm context show`, msg, c.BaseURL())
	}
	return err
}
