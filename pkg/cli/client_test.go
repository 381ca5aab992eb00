package cli

import (
	"strings"
	"testing"

	"github.com/caddyadm/caddyadm/internal/admintest"
	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/caddyadm/caddyadm/pkg/cliconfig"
)

func TestBuildClient_FlagWins(t *testing.T) {
	isolateConfig(t)
	t.Setenv(cliconfig.EnvAdminURL, "http://env:2019")
	resetFlags()
	adminURL = "http://flag:2019"

	client, err := buildClient()
	if err != nil {
		t.Fatalf("buildClient failed: %v", err)
	}
	if client.BaseURL() != "http://flag:2019" {
		t.Errorf("got %q, want flag URL", client.BaseURL())
	}
}

func TestBuildClient_EnvBeatsContext(t *testing.T) {
	isolateConfig(t)
	t.Setenv(cliconfig.EnvAdminURL, "http://env:2019")
	resetFlags()

	client, err := buildClient()
	if err != nil {
		t.Fatalf("buildClient failed: %v", err)
	}
	if client.BaseURL() != "http://env:2019" {
		t.Errorf("got %q, want env URL", client.BaseURL())
	}
}

func TestBuildClient_ContextURL(t *testing.T) {
	isolateConfig(t)
	resetFlags()

	ctxCfg, err := cliconfig.LoadContextConfig()
	if err != nil {
		t.Fatal(err)
	}
	if err := ctxCfg.AddContext("box", &cliconfig.Context{AdminURL: "http://box:2019"}); err != nil {
		t.Fatal(err)
	}
	ctxCfg.CurrentContext = "box"
	if err := cliconfig.SaveContextConfig(ctxCfg); err != nil {
		t.Fatal(err)
	}

	client, err := buildClient()
	if err != nil {
		t.Fatalf("buildClient failed: %v", err)
	}
	if client.BaseURL() != "http://box:2019" {
		t.Errorf("got %q, want context URL", client.BaseURL())
	}
}

func TestBuildClient_DefaultURL(t *testing.T) {
	isolateConfig(t)
	resetFlags()

	client, err := buildClient()
	if err != nil {
		t.Fatalf("buildClient failed: %v", err)
	}
	if client.BaseURL() != caddy.DefaultAdminURL {
		t.Errorf("got %q, want default URL", client.BaseURL())
	}
}

func TestBuildClient_UnknownContextFlag(t *testing.T) {
	isolateConfig(t)
	resetFlags()
	contextName = "missing"

	_, err := buildClient()
	if err == nil {
		t.Fatal("expected error for unknown context")
	}
}

func TestCommand_BasicAuthFromEnv(t *testing.T) {
	srv := startServer(t, admintest.WithBasicAuth("admin", "s3cret"))
	t.Setenv(cliconfig.EnvBasicAuth, "admin:s3cret")

	if _, err := runCommand(t, "get", "--admin-url", srv.URL()); err != nil {
		t.Fatalf("authenticated get failed: %v", err)
	}
}

func TestCommand_BasicAuthFromContext(t *testing.T) {
	srv := startServer(t, admintest.WithBasicAuth("admin", "s3cret"))

	_, err := runCommand(t, "context", "add", "auth",
		"--admin-url", srv.URL(),
		"--username", "admin",
		"--password", "s3cret",
		"--use")
	if err != nil {
		t.Fatalf("context add failed: %v", err)
	}

	if _, err := runCommand(t, "get"); err != nil {
		t.Fatalf("authenticated get failed: %v", err)
	}
}

func TestCommand_MissingCredentialsFail(t *testing.T) {
	srv := startServer(t, admintest.WithBasicAuth("admin", "s3cret"))

	_, err := runCommand(t, "get", "--admin-url", srv.URL())
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}
