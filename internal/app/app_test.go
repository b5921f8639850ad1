package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/hcl"
	"github.com/vk/flowcanvas/internal/testutil"
)

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

// setupApp creates an app that logs at debug level into a buffer.
func setupApp(t *testing.T, cfg *Config) (*App, *testutil.SafeBuffer) {
	t.Helper()
	logs := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	a := NewApp(logs, cfg, hcl.NewLoader())
	t.Cleanup(func() {
		if os.Getenv("FLOWCANVAS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.False(t, cfg.Driving())

	_, err = NewConfig(Config{DrivePath: "script.hcl"})
	require.ErrorContains(t, err, "URL is required")

	cfg, err = NewConfig(Config{DrivePath: "script.hcl", URL: "http://localhost:8085"})
	require.NoError(t, err)
	assert.True(t, cfg.Driving())
}

func TestNewApp_LoadsEditorSettings(t *testing.T) {
	path := writeFile(t, "editor.hcl", `
editor {
  handle_mode = "stable"
  id_prefix   = "n"
}
`)
	a, _ := setupApp(t, &Config{ConfigPath: path})

	assert.Equal(t, config.HandleModeStable, a.Model().HandleMode)
	assert.Equal(t, "n", a.Model().IDPrefix)
}

func TestNewApp_PanicsOnBadConfig(t *testing.T) {
	path := writeFile(t, "broken.hcl", `editor {`)
	require.Panics(t, func() {
		NewApp(io.Discard, &Config{ConfigPath: path}, hcl.NewLoader())
	})
}

func TestHealthcheckMux(t *testing.T) {
	a, _ := setupApp(t, &Config{})
	a.Metrics().SessionOpened()

	ts := httptest.NewServer(a.healthcheckMux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "flowcanvas_sessions_open 1")
}

const replayScript = `
event "click-add" {
  kind = "Menu"
}

event "click-add" {
  kind = "textUpdater"
}

event "connect" {
  source       = node(0)
  sourceHandle = "item-0"
  target       = node(1)
}

event "connect" {
  source = node(7)
  target = node(1)
}
`

func TestRun_ServeThenDrive(t *testing.T) {
	server, _ := setupApp(t, &Config{ListenAddr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	var addr net.Addr
	select {
	case addr = <-server.Listening():
	case err := <-done:
		t.Fatalf("server stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start listening")
	}

	out := &testutil.SafeBuffer{}
	client := NewApp(out, &Config{
		DrivePath: writeFile(t, "script.hcl", replayScript),
		URL:       "http://" + addr.String(),
		LogLevel:  "error",
	}, hcl.NewLoader())
	require.NoError(t, client.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Nodes (2)")
	assert.Contains(t, rendered, "dndnode_0:item-0 → dndnode_1")
	assert.Contains(t, rendered, "Rejected (1)")
	assert.Contains(t, rendered, "#3 connect:")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_DriveMissingScript(t *testing.T) {
	a, _ := setupApp(t, &Config{DrivePath: filepath.Join(t.TempDir(), "missing.hcl"), URL: "http://127.0.0.1:1"})
	require.Error(t, a.Run(context.Background()))
}
