package cli

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/caddyadm/caddyadm/internal/admintest"
)

func TestContextAddAndList(t *testing.T) {
	isolateConfig(t)

	out, err := runCommand(t, "context", "add", "staging",
		"--admin-url", "http://staging:2019",
		"--description", "Staging box")
	if err != nil {
		t.Fatalf("context add failed: %v", err)
	}
	if !strings.Contains(out, `Added context "staging"`) {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCommand(t, "context", "list")
	if err != nil {
		t.Fatalf("context list failed: %v", err)
	}
	for _, want := range []string{"NAME", "staging", "http://staging:2019", "Staging box"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in list output, got: %s", want, out)
		}
	}
}

func TestContextAdd_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "whitespace in name",
			args:    []string{"context", "add", "bad name", "--admin-url", "http://x:2019"},
			wantErr: "whitespace",
		},
		{
			name:    "bad scheme",
			args:    []string{"context", "add", "ftp", "--admin-url", "ftp://x:21"},
			wantErr: "http:// or https://",
		},
		{
			name:    "embedded credentials",
			args:    []string{"context", "add", "creds", "--admin-url", "http://user:pass@x:2019"},
			wantErr: "embedded credentials",
		},
		{
			name:    "password without username",
			args:    []string{"context", "add", "p", "--admin-url", "http://x:2019", "--password", "s3cret"},
			wantErr: "--password requires --username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			_, err := runCommand(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestContextAdd_Duplicate(t *testing.T) {
	isolateConfig(t)

	if _, err := runCommand(t, "context", "add", "dup", "--admin-url", "http://x:2019"); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := runCommand(t, "context", "add", "dup", "--admin-url", "http://y:2019")
	if err == nil {
		t.Fatal("expected error adding duplicate context")
	}
}

func TestContextAdd_JSONMasksPassword(t *testing.T) {
	isolateConfig(t)

	out, err := runCommand(t, "context", "add", "prod",
		"--admin-url", "https://prod:2019",
		"--username", "admin",
		"--password", "hunter2",
		"--json")
	if err != nil {
		t.Fatalf("context add failed: %v", err)
	}
	if strings.Contains(out, "hunter2") {
		t.Errorf("password leaked into output: %s", out)
	}

	var result struct {
		Name    string `json:"name"`
		Context struct {
			Username    string `json:"username"`
			HasPassword bool   `json:"hasPassword"`
		} `json:"context"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.Name != "prod" || result.Context.Username != "admin" || !result.Context.HasPassword {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestContextUse(t *testing.T) {
	isolateConfig(t)

	if _, err := runCommand(t, "context", "add", "staging", "--admin-url", "http://staging:2019"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := runCommand(t, "context", "use", "staging")
	if err != nil {
		t.Fatalf("context use failed: %v", err)
	}
	if !strings.Contains(out, `Switched to context "staging"`) {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCommand(t, "context", "show")
	if err != nil {
		t.Fatalf("context show failed: %v", err)
	}
	if !strings.Contains(out, "Current context: staging") {
		t.Errorf("show does not reflect switch: %s", out)
	}
}

func TestContextUse_UnknownListsAvailable(t *testing.T) {
	isolateConfig(t)

	_, err := runCommand(t, "context", "use", "nope")
	if err == nil {
		t.Fatal("expected error for unknown context")
	}
	if !strings.Contains(err.Error(), "Available contexts:") {
		t.Errorf("expected available contexts in error, got: %v", err)
	}
}

func TestContextShow_Default(t *testing.T) {
	isolateConfig(t)

	out, err := runCommand(t, "context", "show")
	if err != nil {
		t.Fatalf("context show failed: %v", err)
	}
	if !strings.Contains(out, "Current context: local") {
		t.Errorf("expected default local context, got: %s", out)
	}
	if !strings.Contains(out, "http://localhost:2019") {
		t.Errorf("expected default admin URL, got: %s", out)
	}
}

func TestContextShow_FlagOverride(t *testing.T) {
	isolateConfig(t)

	if _, err := runCommand(t, "context", "add", "other", "--admin-url", "http://other:2019"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := runCommand(t, "context", "show", "--context", "other")
	if err != nil {
		t.Fatalf("context show failed: %v", err)
	}
	if !strings.Contains(out, "Current context: other  (from --context)") {
		t.Errorf("expected flag override note, got: %s", out)
	}
}

func TestContextShow_UnknownOverride(t *testing.T) {
	isolateConfig(t)

	_, err := runCommand(t, "context", "show", "--context", "ghost")
	if err == nil {
		t.Fatal("expected error for unknown override context")
	}
	if !strings.Contains(err.Error(), `context "ghost" not found`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestContextRemove_Force(t *testing.T) {
	isolateConfig(t)

	if _, err := runCommand(t, "context", "add", "gone", "--admin-url", "http://gone:2019"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := runCommand(t, "context", "remove", "gone", "--force")
	if err != nil {
		t.Fatalf("context remove failed: %v", err)
	}
	if !strings.Contains(out, `Removed context "gone"`) {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCommand(t, "context", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(out, "gone") {
		t.Errorf("context still listed after removal: %s", out)
	}
}

func TestContextRemove_ConfirmationAborts(t *testing.T) {
	isolateConfig(t)

	if _, err := runCommand(t, "context", "add", "keep", "--admin-url", "http://keep:2019"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	oldStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()
	_, _ = w.WriteString("no\n")
	_ = w.Close()

	out, err := runCommand(t, "context", "remove", "keep")
	if err != nil {
		t.Fatalf("context remove failed: %v", err)
	}
	if !strings.Contains(out, "Aborted") {
		t.Errorf("expected abort, got: %s", out)
	}

	out, err = runCommand(t, "context", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "keep") {
		t.Errorf("context removed despite aborted confirmation: %s", out)
	}
}

func TestContextRemove_Current(t *testing.T) {
	isolateConfig(t)

	_, err := runCommand(t, "context", "remove", "local", "--force")
	if err == nil {
		t.Fatal("expected error removing the current context")
	}
}

func TestGetCommand_UsesContextURL(t *testing.T) {
	srv := startServer(t, admintest.WithConfig(seedConfig()))

	if _, err := runCommand(t, "context", "add", "fake", "--admin-url", srv.URL(), "--use"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := runCommand(t, "get")
	if err != nil {
		t.Fatalf("get via context failed: %v", err)
	}
	if !strings.Contains(out, ":8080") {
		t.Errorf("expected config via context endpoint, got: %s", out)
	}
}
