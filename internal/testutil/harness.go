// Package testutil holds helpers shared by tests that drive a whole editor
// session through interaction events.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/localsession"
	"github.com/vk/flowcanvas/internal/session"
)

// Harness is a local session with captured debug logs.
type Harness struct {
	Ctx     context.Context
	Session *localsession.Session
	Logs    *SafeBuffer
}

// NewHarness creates a session from the default config after applying
// mutate, if given. Ids come from the deterministic counter sequence.
func NewHarness(t *testing.T, mutate func(*config.Model), opts ...localsession.Option) *Harness {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate(), "harness config must be valid")

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	s, err := localsession.New(ctx, cfg, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close(ctx)
		if os.Getenv("FLOWCANVAS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return &Harness{Ctx: ctx, Session: s, Logs: logs}
}

// Do applies every event, failing the test on the first rejection, and
// returns the last snapshot.
func (h *Harness) Do(t *testing.T, events ...event.Event) *session.Snapshot {
	t.Helper()
	snap := h.Session.Snapshot(h.Ctx)
	for _, ev := range events {
		var err error
		snap, err = h.Session.Handle(h.Ctx, ev)
		require.NoError(t, err, "event %s was rejected", ev.Type())
	}
	return snap
}

// Reject applies ev, requires it to fail, and returns the error.
func (h *Harness) Reject(t *testing.T, ev event.Event) error {
	t.Helper()
	snap, err := h.Session.Handle(h.Ctx, ev)
	require.Error(t, err, "event %s should have been rejected", ev.Type())
	require.Nil(t, snap)
	return err
}
