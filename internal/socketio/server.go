// Package socketio serves editor sessions to the rendering collaborator over
// socket.io. Every connection gets its own session and scheduler; the client
// emits "interaction" events and receives a "snapshot" after each one, or an
// "error" when the event was rejected.
package socketio

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/scheduler"
	"github.com/vk/flowcanvas/internal/session"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// Event names on the wire.
const (
	EventInteraction = "interaction"
	EventSnapshot    = "snapshot"
	EventError       = "error"
)

// Path is where the socket.io handler is mounted.
const Path = "/socket.io/"

// ErrorPayload is emitted when an interaction is rejected.
type ErrorPayload struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// Server binds socket.io connections to editor sessions.
type Server struct {
	ctx     context.Context
	io      *socket.Server
	cfg     *config.Model
	factory session.SessionFactory
}

// NewServer creates the socket.io server. ctx carries the logger and bounds
// the lifetime of every session.
func NewServer(ctx context.Context, cfg *config.Model, factory session.SessionFactory) *Server {
	s := &Server{
		ctx:     ctx,
		io:      socket.NewServer(nil, nil),
		cfg:     cfg,
		factory: factory,
	}
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.onConnection(client)
	})
	return s
}

// Handler returns the http.Handler to mount at Path.
func (s *Server) Handler() http.Handler {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{Origin: "*", Credentials: true})
	return s.io.ServeHandler(opts)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.io.Close(nil)
}

func (s *Server) onConnection(client *socket.Socket) {
	sessionID := uuid.NewString()
	ctx := ctxlog.With(s.ctx, "session_id", sessionID, "sid", string(client.Id()))
	logger := ctxlog.FromContext(ctx)

	sess, err := s.factory.NewSession(ctx, s.cfg)
	if err != nil {
		logger.Error("Failed to create session.", "error", err)
		_ = client.Emit(EventError, ErrorPayload{Message: err.Error()})
		client.Disconnect(true)
		return
	}
	logger.Info("Session opened.")

	runCtx, cancel := context.WithCancel(ctx)
	sched := scheduler.New(sess)
	go func() {
		_ = sched.Run(runCtx)
	}()

	client.On(EventInteraction, func(args ...any) {
		s.onInteraction(runCtx, client, sched, args)
	})
	client.On("disconnect", func(reason ...any) {
		logger.Info("Session closed.", "reason", reason)
		cancel()
		if err := sess.Close(ctx); err != nil {
			logger.Error("Failed to close session.", "error", err)
		}
	})

	_ = client.Emit(EventSnapshot, sess.Snapshot(ctx))
}

// onInteraction decodes one interaction and replies through the client's
// ack callback when one was sent, else by emitting.
func (s *Server) onInteraction(ctx context.Context, client *socket.Socket, sched scheduler.Scheduler, args []any) {
	logger := ctxlog.FromContext(ctx)

	var ack socket.Ack
	if n := len(args); n > 0 {
		if fn, ok := args[n-1].(socket.Ack); ok {
			ack = fn
			args = args[:n-1]
		}
	}
	reply := func(name string, payload any) {
		if ack != nil {
			ack([]any{name, payload}, nil)
			return
		}
		if err := client.Emit(name, payload); err != nil {
			logger.Error("Failed to emit.", "event", name, "error", err)
		}
	}

	if len(args) == 0 {
		reply(EventError, ErrorPayload{Message: "interaction without payload"})
		return
	}
	ev, err := event.DecodeValue(args[0])
	if err != nil {
		logger.Warn("Undecodable interaction.", "error", err)
		reply(EventError, ErrorPayload{Message: err.Error()})
		return
	}

	snap, err := sched.Submit(ctx, ev)
	if err != nil {
		reply(EventError, ErrorPayload{Type: ev.Type(), Message: err.Error()})
		return
	}
	reply(EventSnapshot, snap)
}
