package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/caddyadm/caddyadm/internal/admintest"
	"github.com/caddyadm/caddyadm/pkg/cliconfig"
)

// resetFlags restores all command flag variables to their defaults so test
// runs do not leak state into each other.
func resetFlags() {
	adminURL, contextName = "", ""
	jsonOutput, verbose = false, false
	loadFormat, loadWatch = "", false
	adaptFormat, adaptPretty = "", false
	getQuery, setData, createData, updateData = "", "", "", ""
	caCertsOutput = ""
	initAdminURL, initUsername, initPassword = "", "", ""
	initContextName, initForce, initOutput = cliconfig.DefaultContextName, false, ".caddyadmrc.yaml"
	contextAddAdminURL, contextAddUsername, contextAddPassword = "", "", ""
	contextAddDescription, contextAddTLSInsecure, contextAddUseCurrent = "", false, false
	contextRemoveForce = false
}

// runCommand executes the root command with the given args, capturing stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), execErr
}

// isolateConfig points all config lookups at a temp directory so tests
// cannot read the developer's real contexts or env overrides.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(cliconfig.EnvAdminURL, "")
	t.Setenv(cliconfig.EnvContext, "")
	t.Setenv(cliconfig.EnvBasicAuth, "")
}

// startServer runs a fake admin endpoint with config isolation.
func startServer(t *testing.T, opts ...admintest.Option) *admintest.Server {
	t.Helper()
	isolateConfig(t)

	srv := admintest.New(opts...)
	t.Cleanup(srv.Close)
	return srv
}
