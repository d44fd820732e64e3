// Command vad-adapter runs the streaming VAD engine behind a WebSocket
// listener, one isolated Engine per connection. Structured as the
// teacher's cmd/adapter/main.go: bind the listener before doing anything
// expensive, resolve "auto"/"silero"/"stub" engine selection, log with
// log/slog, and shut down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	vad "github.com/silerostream/vad-engine"
	"github.com/silerostream/vad-engine/internal/config"
	"github.com/silerostream/vad-engine/internal/wsserver"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := config.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := result.Config

	logger := newLogger(cfg.LogLevel)
	for _, warn := range result.Warnings {
		logger.Warn(warn)
	}

	logger.Info("starting adapter",
		"adapter", "vad-adapter",
		"version", version,
		"engine_config", cfg.Engine,
		"listen_addr", cfg.ListenAddr,
		"model", cfg.Model,
	)

	// Bind the listener before doing anything expensive (model load/fetch).
	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("failed to bind listener", "error", err)
		os.Exit(1)
	}
	defer lis.Close()
	logger.Info("listener bound, port ready", "addr", lis.Addr().String())

	vadCfg := cfg.VADConfig()

	// Probe once before accepting traffic, same as the teacher's probe-then-factory pattern.
	probe, err := vad.New(vadCfg, logger)
	if err != nil {
		logger.Error("engine probe failed — cannot start", "error", err)
		os.Exit(1)
	}
	probe.Release()
	logger.Info("engine ready", "backend", vadCfg.Backend)

	newEngine := func() (*vad.Engine, error) {
		return vad.New(vadCfg, logger)
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/stream", wsserver.New(logger, newEngine))

	httpServer := &http.Server{Handler: mux}

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	logger.Info("adapter ready to serve requests")

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		logger.Info("shutdown requested, stopping server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed, forcing close", "error", err)
			httpServer.Close()
		}
		close(shutdownDone)
	}()

	select {
	case err := <-serverErr:
		logger.Error("server terminated with error", "error", err)
		os.Exit(1)
	case <-shutdownDone:
	}

	logger.Info("adapter stopped")
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
