package e2e_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/caddyadm/caddyadm/pkg/caddy"
)

// Admin config served by the container. The admin endpoint must listen on
// all interfaces, not the default localhost, to be reachable through the
// mapped port.
const containerConfig = `{
	"admin": {"listen": "0.0.0.0:2019"},
	"apps": {
		"http": {
			"servers": {
				"srv0": {
					"listen": [":8080"],
					"routes": [{
						"handle": [{"handler": "static_response", "body": "hello"}]
					}]
				}
			}
		}
	}
}`

// startCaddy boots a real Caddy container and returns a client against its
// admin endpoint.
func startCaddy(t *testing.T) *caddy.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "caddy:2.10-alpine",
			ExposedPorts: []string{"2019/tcp"},
			Cmd:          []string{"caddy", "run", "--config", "/etc/caddy/config.json"},
			Files: []testcontainers.ContainerFile{
				{
					Reader:            strings.NewReader(containerConfig),
					ContainerFilePath: "/etc/caddy/config.json",
					FileMode:          0o644,
				},
			},
			WaitingFor: wait.ForHTTP("/config/").WithPort("2019/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	endpoint, err := container.PortEndpoint(ctx, "2019/tcp", "http")
	require.NoError(t, err)

	return caddy.New(endpoint, caddy.WithTimeout(10*time.Second))
}

func TestCaddyConfigLifecycle(t *testing.T) {
	client := startCaddy(t)
	ctx := context.Background()

	t.Run("read full config", func(t *testing.T) {
		res := caddy.GetConfig[json.RawMessage](ctx, client, "")
		require.True(t, res.Success, res.Message)
		assert.Contains(t, string(res.Data), "static_response")
	})

	t.Run("read config path", func(t *testing.T) {
		res := caddy.GetConfig[[]string](ctx, client, "apps/http/servers/srv0/listen")
		require.True(t, res.Success, res.Message)
		assert.Equal(t, []string{":8080"}, res.Data)
	})

	t.Run("replace and read back", func(t *testing.T) {
		set := caddy.UpdateConfig[string](ctx, client, "apps/http/servers/srv0/listen", []string{":8081"})
		require.True(t, set.Success, set.Message)

		got := caddy.GetConfig[[]string](ctx, client, "apps/http/servers/srv0/listen")
		require.True(t, got.Success, got.Message)
		assert.Equal(t, []string{":8081"}, got.Data)
	})

	t.Run("append to an array", func(t *testing.T) {
		res := caddy.SetConfig[string](ctx, client, "apps/http/servers/srv0/listen", ":8082")
		require.True(t, res.Success, res.Message)

		got := caddy.GetConfig[[]string](ctx, client, "apps/http/servers/srv0/listen")
		require.True(t, got.Success, got.Message)
		assert.Equal(t, []string{":8081", ":8082"}, got.Data)
	})

	t.Run("delete path", func(t *testing.T) {
		set := caddy.SetConfig[string](ctx, client, "apps/http/servers/srv0/automatic_https", map[string]bool{"disable": true})
		require.True(t, set.Success, set.Message)

		del := caddy.DeleteConfig[string](ctx, client, "apps/http/servers/srv0/automatic_https")
		require.True(t, del.Success, del.Message)

		got := caddy.GetConfig[json.RawMessage](ctx, client, "apps/http/servers/srv0/automatic_https")
		require.True(t, got.Success, got.Message)
		assert.Equal(t, "null", string(got.Data))
	})

	t.Run("missing path fails", func(t *testing.T) {
		res := caddy.GetConfig[json.RawMessage](ctx, client, "apps/nothing/here")
		assert.True(t, res.Failed())
		assert.NotEmpty(t, res.Message)
	})
}

func TestCaddyLoadAndAdapt(t *testing.T) {
	client := startCaddy(t)
	ctx := context.Background()

	caddyfile := ":8090\nrespond \"adapted\"\n"

	t.Run("adapt caddyfile", func(t *testing.T) {
		res := caddy.Adapt[json.RawMessage](ctx, client, caddyfile, caddy.ContentTypeCaddyfile)
		require.True(t, res.Success, res.Message)

		var parsed struct {
			Apps map[string]json.RawMessage `json:"apps"`
		}
		require.NoError(t, json.Unmarshal(res.Data, &parsed))
		assert.Contains(t, parsed.Apps, "http")
	})

	t.Run("load caddyfile", func(t *testing.T) {
		res := caddy.Load[string](ctx, client, caddyfile, caddy.ContentTypeCaddyfile)
		require.True(t, res.Success, res.Message)

		got := caddy.GetConfig[json.RawMessage](ctx, client, "apps/http/servers")
		require.True(t, got.Success, got.Message)
		assert.Contains(t, string(got.Data), ":8090")
	})

	t.Run("load invalid caddyfile fails", func(t *testing.T) {
		res := caddy.Load[string](ctx, client, "{\n  unknown_directive_xyz\n}", caddy.ContentTypeCaddyfile)
		assert.True(t, res.Failed())
		assert.NotEmpty(t, res.Message)
	})
}

func TestCaddyIDTagging(t *testing.T) {
	client := startCaddy(t)
	ctx := context.Background()

	set := caddy.SetConfig[string](ctx, client, "apps/http/servers/srv0/@id", "main-server")
	require.True(t, set.Success, set.Message)

	got := caddy.GetConfig[json.RawMessage](ctx, client, "id/main-server/listen")
	require.True(t, got.Success, got.Message)
	assert.Contains(t, string(got.Data), ":8080")
}

func TestCaddyPKI(t *testing.T) {
	client := startCaddy(t)
	ctx := context.Background()

	// The local CA is provisioned lazily; loading a config with the pki app
	// forces it into existence.
	res := caddy.SetConfig[string](ctx, client, "apps/pki", map[string]any{
		"certificate_authorities": map[string]any{
			"local": map[string]any{"install_trust": false},
		},
	})
	require.True(t, res.Success, res.Message)

	info := client.CAInfo(ctx, caddy.DefaultCAID)
	require.True(t, info.Success, info.Message)
	assert.Equal(t, "local", info.Data.ID)
	assert.NotEmpty(t, info.Data.RootCertificate)

	certs := client.CACertificates(ctx, caddy.DefaultCAID)
	require.True(t, certs.Success, certs.Message)
	assert.Contains(t, certs.Data, "BEGIN CERTIFICATE")
}

func TestCaddyStop(t *testing.T) {
	client := startCaddy(t)
	ctx := context.Background()

	res := client.Stop(ctx)
	assert.True(t, res.Success, res.Message)

	// The admin endpoint should be gone shortly after.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		probe := caddy.GetConfig[json.RawMessage](ctx, client, "")
		if probe.Failed() {
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Error("admin endpoint still reachable after stop")
}
