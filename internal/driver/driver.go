// Package driver replays a scripted sequence of interaction events against a
// running flowcanvas server over socket.io.
package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/session"
	"github.com/vk/flowcanvas/internal/socketio"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the wait for each reply.
const DefaultTimeout = 10 * time.Second

// Rejection records an event the server refused.
type Rejection struct {
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Result is the outcome of a replay.
type Result struct {
	Snapshot   *session.Snapshot
	Rejections []Rejection
}

// Driver is a socket.io client for one server.
type Driver struct {
	url     string
	timeout time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(dr *Driver) { dr.timeout = d }
}

// New creates a driver for the server at rawURL.
func New(rawURL string, opts ...Option) *Driver {
	d := &Driver{url: rawURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type reply struct {
	name string
	data any
	err  error
}

// Replay connects, sends every event in order, waiting for each reply, and
// returns the last snapshot. Rejected events are recorded, not fatal.
func (d *Driver) Replay(ctx context.Context, events []event.Event) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("url", d.url)
	logger.Debug("Driver started.", "events", len(events))
	defer logger.Debug("Driver finished.")

	parsedURL, err := url.Parse(d.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	path := parsedURL.Path
	if path == "" || path == "/" {
		path = socketio.Path
	}

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	replies := make(chan reply, 16)
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		replies <- reply{err: err}
	})
	io.On(types.EventName(socketio.EventSnapshot), func(data ...any) {
		replies <- reply{name: socketio.EventSnapshot, data: first(data)}
	})
	io.On(types.EventName(socketio.EventError), func(data ...any) {
		replies <- reply{name: socketio.EventError, data: first(data)}
	})

	io.Connect()

	// The server greets every connection with the current snapshot.
	r, err := d.await(ctx, replies)
	if err != nil {
		return nil, fmt.Errorf("waiting for the initial snapshot: %w", err)
	}
	if r.name == socketio.EventError {
		var p socketio.ErrorPayload
		_ = remarshal(r.data, &p)
		return nil, fmt.Errorf("server refused the session: %s", p.Message)
	}
	res := &Result{}
	if res.Snapshot, err = decodeSnapshot(r.data); err != nil {
		return nil, err
	}
	logger.Info("Successfully connected", "sid", io.Id())

	for i, ev := range events {
		payload, err := encode(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Type(), err)
		}
		logger.Debug("Emitting interaction.", "index", i, "type", ev.Type())
		if err := io.Emit(socketio.EventInteraction, payload); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Type(), err)
		}

		r, err := d.await(ctx, replies)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Type(), err)
		}
		switch r.name {
		case socketio.EventSnapshot:
			if res.Snapshot, err = decodeSnapshot(r.data); err != nil {
				return nil, err
			}
		case socketio.EventError:
			var p socketio.ErrorPayload
			_ = remarshal(r.data, &p)
			logger.Warn("Interaction rejected.", "index", i, "type", ev.Type(), "error", p.Message)
			res.Rejections = append(res.Rejections, Rejection{Index: i, Type: ev.Type(), Message: p.Message})
		}
	}
	return res, nil
}

func (d *Driver) await(ctx context.Context, replies <-chan reply) (reply, error) {
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case r := <-replies:
		return r, r.err
	case <-timer.C:
		return reply{}, fmt.Errorf("no reply within %s", d.timeout)
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

func first(data []any) any {
	if len(data) == 0 {
		return nil
	}
	return data[0]
}

// encode turns ev into the generic JSON value socket.io transmits.
func encode(ev event.Event) (map[string]any, error) {
	raw, err := event.Encode(ev)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeSnapshot(data any) (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := remarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

func remarshal(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
