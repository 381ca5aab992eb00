package cli

import (
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/caddyadm/caddyadm/pkg/cli/internal/output"
	"github.com/caddyadm/caddyadm/pkg/cliconfig"
	"github.com/caddyadm/caddyadm/pkg/logging"
)

// buildClient creates an admin API client from the resolved configuration.
// The admin URL comes from (in order) the --admin-url flag, the
// CADDYADM_ADMIN_URL environment variable, the active context, then config
// files. Credentials come from CADDYADM_BASIC_AUTH or the active context.
func buildClient() (*caddy.Client, error) {
	fileCfg, err := cliconfig.LoadAll()
	if err != nil {
		output.Warn("ignoring config file: %v", err)
	}

	ctxCfg, err := cliconfig.LoadContextConfig()
	if err != nil {
		return nil, err
	}
	activeCtx, _, err := ctxCfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}

	base := adminURL
	if base == "" {
		base = cliconfig.GetAdminURLFromEnv()
	}
	// A synthesized default context must not shadow an admin URL set in a
	// config file, so it only applies after the file layer.
	if base == "" && activeCtx != nil && !ctxCfg.Synthesized() {
		base = activeCtx.AdminURL
	}
	if base == "" && fileCfg.Sources["adminUrl"] != cliconfig.SourceDefault {
		base = fileCfg.AdminURL
	}

	var opts []caddy.Option

	if activeCtx != nil && activeCtx.TLSInsecure {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		opts = append(opts, caddy.WithHTTPClient(&http.Client{Transport: transport}))
	}

	if fileCfg.Timeout > 0 {
		opts = append(opts, caddy.WithTimeout(time.Duration(fileCfg.Timeout)*time.Second))
	}

	if user, pass, ok := cliconfig.GetBasicAuthFromEnv(); ok {
		opts = append(opts, caddy.WithBasicAuth(user, pass))
	} else if activeCtx != nil && activeCtx.Username != "" {
		opts = append(opts, caddy.WithBasicAuth(activeCtx.Username, activeCtx.Password))
	}

	if verbose || fileCfg.Verbose {
		opts = append(opts, caddy.WithLogger(logging.New(logging.Config{
			Level:  logging.LevelDebug,
			Format: logging.FormatText,
			Output: os.Stderr,
		})))
	}

	return caddy.New(base, opts...), nil
}
