package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/driver"
	"github.com/vk/flowcanvas/internal/hcl"
	"github.com/vk/flowcanvas/internal/localsession"
	"github.com/vk/flowcanvas/internal/render"
	"github.com/vk/flowcanvas/internal/socketio"
)

// Run executes the mode selected by the configuration. Serve mode returns
// once ctx is done; drive mode returns when the script has been replayed.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.logger.Debug("App.Run method finished.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	} else {
		a.logger.Debug("Health check server disabled.")
	}

	if a.config.Driving() {
		return a.drive(ctx)
	}
	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	io := socketio.NewServer(ctx, a.model, &localsession.SessionFactory{Metrics: a.metrics})
	defer io.Close()

	mux := http.NewServeMux()
	mux.Handle(socketio.Path, io.Handler())

	ln, err := net.Listen("tcp", a.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.ListenAddr, err)
	}
	srv := &http.Server{Handler: mux}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	a.logger.Info("🚀 Socket.IO server listening", "address", ln.Addr().String(), "path", socketio.Path)
	select {
	case a.listening <- ln.Addr():
	default:
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("socket.io server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	a.logger.Info("🏁 Shutting down socket.io server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("socket.io server shutdown failed: %w", err)
	}
	return nil
}

func (a *App) drive(ctx context.Context) error {
	events, err := hcl.LoadScript(ctx, a.config.DrivePath, a.model.IDPrefix)
	if err != nil {
		return err
	}
	a.logger.Info("🚀 Replaying interaction script...", "events", len(events), "url", a.config.URL)

	res, err := driver.New(a.config.URL).Replay(ctx, events)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	a.logger.Info("🏁 Replay finished.", "rejected", len(res.Rejections))

	fmt.Fprint(a.outW, render.New(a.outW).Result(res))
	return nil
}
