// Package lifecycle maps process termination triggers to a single shutdown
// callback and the matching exit code.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
	"time"
)

// Process exit codes.
const (
	ExitStartupFailure = 1
	ExitInterrupt      = 2
	ExitPanic          = 99
)

// DefaultShutdownTimeout bounds the shutdown callback.
const DefaultShutdownTimeout = 10 * time.Second

// ShutdownFunc releases process resources before exit.
type ShutdownFunc func(ctx context.Context) error

// Manager runs the shutdown callback once, then exits the process.
type Manager struct {
	shutdown ShutdownFunc
	timeout  time.Duration
	exit     func(code int)
	logger   *slog.Logger

	listenOnce sync.Once
	signals    chan os.Signal

	once sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds how long the shutdown callback may run.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithExit replaces os.Exit.
func WithExit(exit func(code int)) Option {
	return func(m *Manager) {
		m.exit = exit
	}
}

// New creates a Manager calling shutdown before exit.
func New(shutdown ShutdownFunc, opts ...Option) *Manager {
	m := &Manager{
		shutdown: shutdown,
		timeout:  DefaultShutdownTimeout,
		exit:     os.Exit,
		logger:   slog.Default().With("component", "lifecycle"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Listen subscribes to SIGINT and SIGTERM. A signal received before
// WaitForSignal is called is kept for it. The subscription lasts until the
// process exits.
func (m *Manager) Listen() {
	m.listen()
}

func (m *Manager) listen() <-chan os.Signal {
	m.listenOnce.Do(func() {
		m.signals = make(chan os.Signal, 1)
		signal.Notify(m.signals, os.Interrupt, syscall.SIGTERM)
	})
	return m.signals
}

// WaitForSignal blocks until SIGINT or SIGTERM arrives, then shuts down and
// exits with ExitInterrupt. It returns without exiting if ctx is done first.
// It calls Listen if that has not happened yet.
func (m *Manager) WaitForSignal(ctx context.Context) {
	select {
	case sig := <-m.listen():
		m.logger.Info("received termination signal, shutting down", "signal", sig.String())
		m.Terminate(ExitInterrupt)
	case <-ctx.Done():
	}
}

// Recover must be deferred. A panic in the deferring goroutine is logged
// with its stack, followed by shutdown and exit with ExitPanic.
func (m *Manager) Recover() {
	r := recover()
	if r == nil {
		return
	}

	m.logger.Error("recovered unhandled panic",
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
	m.Terminate(ExitPanic)
}

// Terminate runs the shutdown callback and exits with code. Only the first
// call has any effect.
func (m *Manager) Terminate(code int) {
	m.once.Do(func() {
		m.runShutdown()
		m.logger.Info("exiting", "code", code)
		m.exit(code)
	})
}

func (m *Manager) runShutdown() {
	if m.shutdown == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.shutdown(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			m.logger.Error("failed to shutdown cleanly", "error", err)
			return
		}
		m.logger.Info("completed shutdown")
	case <-ctx.Done():
		m.logger.Error("shutdown timed out", "timeout", m.timeout)
	}
}
