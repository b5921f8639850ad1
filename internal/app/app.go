package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	metrics *metrics.Metrics

	httpServer *http.Server
	listening  chan net.Addr
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and metrics registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var configPaths []string
	if appConfig.ConfigPath != "" {
		configPaths = append(configPaths, appConfig.ConfigPath)
	}

	model, err := loader.Load(ctx, configPaths...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Editor configuration loaded.",
		"handle_mode", model.HandleMode,
		"id_sequence", model.IDSequence,
		"palette_size", len(model.Palette),
	)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		model:     model,
		metrics:   metrics.New(),
		listening: make(chan net.Addr, 1),
	}
}

// Model returns the loaded editor configuration.
func (a *App) Model() *config.Model {
	return a.model
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Listening yields the socket.io server's bound address once it accepts
// connections. Only serve mode sends on it.
func (a *App) Listening() <-chan net.Addr {
	return a.listening
}
