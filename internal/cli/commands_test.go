package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theiacloud/theiacloud-go/internal/common/browser"
	"github.com/theiacloud/theiacloud-go/internal/servicetest"
	"github.com/theiacloud/theiacloud-go/pkg/theiacloud"
	"github.com/tidwall/gjson"
)

const testAppID = "asdfghjkl"

type cliFixture struct {
	svc        *servicetest.Service
	configFile string
	nav        *browser.Recorder
}

func newCLIFixture(t *testing.T, mutate ...func(*Config)) *cliFixture {
	t.Helper()
	svc, srv := servicetest.NewServer(t, testAppID)
	cfg := &Config{
		ServiceURL:    srv.URL + "/index.html",
		AppID:         testAppID,
		AppDefinition: "theia-cloud-demo",
		User:          "jane",
	}
	for _, m := range mutate {
		m(cfg)
	}
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteConfig(file))

	nav := &browser.Recorder{}
	prev := systemNavigator
	systemNavigator = nav
	t.Cleanup(func() { systemNavigator = prev })

	return &cliFixture{svc: svc, configFile: file, nav: nav}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append(args, "--config", f.configFile)...)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version", "--config", "/tmp/theiacloud.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "theiacloud CLI "+getCLIVersion())
	assert.Contains(t, out, "/tmp/theiacloud.yaml")
}

func TestMissingConfig(t *testing.T) {
	_, err := runCLI(t, "ping", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "service URL is not configured")
}

func TestPingCommand(t *testing.T) {
	f := newCLIFixture(t)
	out, err := f.run(t, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "Service serves app "+testAppID)
	assert.Equal(t, 1, f.svc.CallCount(http.MethodGet, "/service/"+testAppID))

	out, err = f.run(t, "ping", "--json")
	require.NoError(t, err)
	assert.True(t, gjson.Get(out, "result").Bool())

	f = newCLIFixture(t, func(c *Config) { c.AppID = "unknown" })
	out, err = f.run(t, "ping")
	assert.ErrorIs(t, err, ErrAlreadyHandled)
	assert.Contains(t, out, "does not serve app unknown")
}

func TestAccessTokenIsSent(t *testing.T) {
	f := newCLIFixture(t, func(c *Config) { c.AccessToken = "opaque-token" })
	_, err := f.run(t, "ping")
	require.NoError(t, err)
	calls := f.svc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer opaque-token", calls[0].Auth)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	f = newCLIFixture(t, func(c *Config) { c.AccessToken = expired })
	_, err = f.run(t, "ping")
	require.NoError(t, err)
	calls = f.svc.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)
}

func TestLaunchCommand(t *testing.T) {
	t.Run("ephemeral opens the browser", func(t *testing.T) {
		f := newCLIFixture(t)
		out, err := f.run(t, "launch")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://sessions.example.com/session-1/"}, f.nav.URLs())
		assert.Contains(t, out, "Session launched for jane")
		calls := f.svc.Calls()
		require.Len(t, calls, 1)
		assert.True(t, gjson.Get(calls[0].Body, "ephemeral").Bool())
		assert.Equal(t, "theia-cloud-demo", gjson.Get(calls[0].Body, "appDefinition").String())
	})

	t.Run("no browser prints the url", func(t *testing.T) {
		f := newCLIFixture(t)
		out, err := f.run(t, "launch", "--no-browser")
		require.NoError(t, err)
		assert.Contains(t, out, "https://sessions.example.com/session-1/")
		assert.Empty(t, f.nav.URLs())
	})

	t.Run("create workspace", func(t *testing.T) {
		f := newCLIFixture(t)
		_, err := f.run(t, "launch", "--create", "--workspace", "project", "--label", "Project", "--session-timeout", "5")
		require.NoError(t, err)
		assert.True(t, f.svc.HasWorkspace("project"))
		body := f.svc.Calls()[0].Body
		assert.False(t, gjson.Get(body, "ephemeral").Bool())
		assert.True(t, gjson.Get(body, "ephemeral").Exists())
		assert.Equal(t, int64(5), gjson.Get(body, "timeout").Int())
		assert.Equal(t, "Project", gjson.Get(body, "label").String())
	})

	t.Run("existing workspace", func(t *testing.T) {
		f := newCLIFixture(t)
		f.svc.AddWorkspace(servicetest.Workspace{Name: "ws-existing", User: "jane"})
		out, err := f.run(t, "launch", "--workspace", "ws-existing", "--json")
		require.NoError(t, err)
		assert.Equal(t, "https://sessions.example.com/session-1/", gjson.Get(out, "value.url").String())
		assert.False(t, gjson.Get(out, "value.ephemeral").Bool())
		assert.False(t, gjson.Get(f.svc.Calls()[0].Body, "ephemeral").Exists())
		assert.Empty(t, f.nav.URLs())
	})

	t.Run("retries from flag", func(t *testing.T) {
		f := newCLIFixture(t)
		f.svc.FailLaunches = 1
		_, err := f.run(t, "launch", "--retries", "1")
		require.NoError(t, err)
		assert.Equal(t, 2, f.svc.CallCount(http.MethodPost, "/service"))
	})

	t.Run("retries from config", func(t *testing.T) {
		f := newCLIFixture(t, func(c *Config) { c.Retries = 2 })
		f.svc.FailLaunches = 5
		_, err := f.run(t, "launch")
		assert.ErrorContains(t, err, "session launch failed")
		assert.Equal(t, 3, f.svc.CallCount(http.MethodPost, "/service"))
	})

	t.Run("unsuccessful launch", func(t *testing.T) {
		f := newCLIFixture(t)
		f.svc.LaunchError = "no capacity"
		_, err := f.run(t, "launch")
		assert.EqualError(t, err, "Could not launch session: no capacity")
	})

	t.Run("conflicting flags", func(t *testing.T) {
		f := newCLIFixture(t)
		_, err := f.run(t, "launch", "--ephemeral", "--create")
		assert.ErrorContains(t, err, "cannot be combined")
		_, err = f.run(t, "launch", "--label", "x")
		assert.ErrorContains(t, err, "--label requires --create")
		assert.Empty(t, f.svc.Calls())
	})

	t.Run("app definition required", func(t *testing.T) {
		f := newCLIFixture(t, func(c *Config) { c.AppDefinition = "" })
		_, err := f.run(t, "launch")
		assert.ErrorContains(t, err, "app definition is required")
	})
}

func TestSessionCommands(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "session", "start")
	require.NoError(t, err)
	assert.Contains(t, out, "Session started: https://sessions.example.com/session-1/")

	out, err = f.run(t, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions (1):")
	assert.Contains(t, out, "session-1")
	assert.Contains(t, out, "theia-cloud-demo")

	out, err = f.run(t, "session", "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "value.#").Int())
	assert.Equal(t, "session-1", gjson.Get(out, "value.0.name").String())

	out, err = f.run(t, "session", "activity", "session-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity reported for session-1")

	out, err = f.run(t, "session", "stop", "session-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Session session-1 stopped")

	_, err = f.run(t, "session", "stop", "session-1")
	assert.EqualError(t, err, "session session-1 was not stopped")

	out, err = f.run(t, "session", "list", "--user", "someone-else")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions (0):")
}

func TestSessionListRequiresUser(t *testing.T) {
	f := newCLIFixture(t, func(c *Config) { c.User = "" })
	_, err := f.run(t, "session", "list")
	assert.ErrorContains(t, err, "user is required")
	assert.Empty(t, f.svc.Calls())
}

func TestWorkspaceCommands(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "workspace", "create", "--label", "My project")
	require.NoError(t, err)
	assert.Contains(t, out, "Workspace created: ws-1")

	out, err = f.run(t, "workspace", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Workspaces (1):")
	assert.Contains(t, out, "My project")

	out, err = f.run(t, "workspace", "delete", "ws-1", "--json")
	require.NoError(t, err)
	assert.True(t, gjson.Get(out, "result").Bool())
	assert.False(t, f.svc.HasWorkspace("ws-1"))

	out, err = f.run(t, "workspace", "delete", "ws-1", "--json")
	assert.ErrorIs(t, err, ErrAlreadyHandled)
	assert.False(t, gjson.Get(out, "result").Bool())
}

func TestConfigCommands(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, "config", "set", "service_url", "https://svc.example.com", "--config", file)
	require.NoError(t, err)
	_, err = runCLI(t, "config", "set", "retries", "3", "--config", file)
	require.NoError(t, err)
	_, err = runCLI(t, "config", "set", "access_token", "opaque-token", "--config", file)
	require.NoError(t, err)

	cfg, err := ReadConfigFile(file)
	require.NoError(t, err)
	assert.Equal(t, "https://svc.example.com", cfg.ServiceURL)
	assert.Equal(t, 3, cfg.Retries)

	_, err = runCLI(t, "config", "set", "colour", "red", "--config", file)
	assert.ErrorContains(t, err, "unknown config key")

	out, err := runCLI(t, "config", "show", "--json", "--config", file)
	require.NoError(t, err)
	assert.Equal(t, "https://svc.example.com", gjson.Get(out, "service_url").String())
	assert.Equal(t, "********", gjson.Get(out, "access_token").String())
}

func TestErrorOutput(t *testing.T) {
	err := theiacloud.Validate(theiacloud.SessionListRequest{
		ServiceRequest: theiacloud.ServiceRequest{ServiceURL: "https://svc.example.com"},
		AppID:          testAppID,
	})
	require.Error(t, err)
	kv := errorOutput(fmt.Errorf("listing sessions: %w", err))
	assert.Contains(t, kv["error"], "is required")
	assert.Equal(t, http.StatusBadRequest, kv["status"])
	assert.Contains(t, kv["details"], "invalid request")

	kv = errorOutput(errors.New("user is required"))
	assert.Equal(t, map[string]any{"error": "user is required"}, kv)
}
