package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nftgen/core"
	"nftgen/logging"
)

// DefaultTimeout bounds waiting for in-flight tasks plus cleanup.
const DefaultTimeout = 60 * time.Second

// Manager coordinates a command's shutdown: the first SIGINT/SIGTERM cancels
// Context, a second one exits the process with core.ExitCodeSIGINT, and
// Shutdown waits for tracked tasks before running the cleanup registry.
//
//	m := shutdown.NewManager(ctx, log)
//	m.Register("ledger", 20, func(context.Context) error { return ledger.Close() })
//	m.Start()
//	defer m.Shutdown()
//	err := orchestrator.Run(m.Context())
type Manager struct {
	log      *logging.Logger
	timeout  time.Duration
	exit     func(int)
	mu       sync.Mutex
	started  bool
	shutdown bool

	ctx    context.Context
	cancel context.CancelFunc

	tracker  *OperationTracker
	registry *Registry
	signals  *SignalCounter

	sigChan chan os.Signal
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTimeout sets the shutdown timeout.
func WithTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// WithExitFunc replaces os.Exit for the forced shutdown path.
func WithExitFunc(exit func(int)) ManagerOption {
	return func(m *Manager) {
		m.exit = exit
	}
}

// NewManager creates a Manager whose Context derives from parent.
func NewManager(parent context.Context, log *logging.Logger, opts ...ManagerOption) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	m := &Manager{
		log:      log.Named("shutdown"),
		timeout:  DefaultTimeout,
		exit:     os.Exit,
		ctx:      ctx,
		cancel:   cancel,
		tracker:  NewOperationTracker(),
		registry: NewRegistry(),
		sigChan:  make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.signals = NewSignalCounter(2, func() {
		m.log.Warn("received second signal, exiting immediately")
		_ = m.log.Sync()
		m.exit(core.ExitCodeSIGINT)
	})
	return m
}

// Context is cancelled on the first signal or by Cancel.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Cancel cancels Context without a signal.
func (m *Manager) Cancel() {
	m.cancel()
}

// Tracker returns the tracker image tasks register with.
func (m *Manager) Tracker() *OperationTracker {
	return m.tracker
}

// Register adds a cleanup function; see Registry for priorities.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
	m.log.Debug("registered shutdown handler", zap.String("name", name), zap.Int("priority", priority))
}

// Start listens for SIGINT and SIGTERM. Calling it twice is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range m.sigChan {
			m.handleSignal(sig)
		}
	}()
}

func (m *Manager) handleSignal(sig os.Signal) {
	if m.signals.Increment() == 1 {
		m.log.Info("received shutdown signal, finishing in-flight images",
			zap.String("signal", sig.String()))
		m.cancel()
	}
}

// Interrupted reports whether a signal has been received.
func (m *Manager) Interrupted() bool {
	return m.signals.Count() > 0
}

// Shutdown closes the tracker, waits for in-flight tasks and runs the
// cleanup registry, all within the timeout. It is idempotent.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	started := m.started
	m.mu.Unlock()

	if started {
		signal.Stop(m.sigChan)
		close(m.sigChan)
	}
	m.cancel()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.tracker.Close()
	if active := m.tracker.ActiveCount(); active > 0 {
		m.log.Info("waiting for in-flight tasks", zap.Int64("active", active))
	}
	if err := m.tracker.Wait(ctx); err != nil {
		m.log.Warn("timed out waiting for in-flight tasks",
			zap.Int64("remaining", m.tracker.ActiveCount()),
			logging.Duration(time.Since(start)))
	}

	// Cleanup always gets at least a second, even after a slow drain.
	cleanupCtx := ctx
	if ctx.Err() != nil {
		var cleanupCancel context.CancelFunc
		cleanupCtx, cleanupCancel = context.WithTimeout(context.Background(), time.Second)
		defer cleanupCancel()
	}

	err := m.registry.Run(cleanupCtx)
	if err != nil {
		m.log.Error("cleanup finished with errors", zap.Error(err), logging.Duration(time.Since(start)))
		return err
	}
	m.log.Debug("cleanup finished", zap.Strings("handlers", m.registry.Names()), logging.Duration(time.Since(start)))
	return nil
}

// IsShuttingDown reports whether Shutdown has started.
func (m *Manager) IsShuttingDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown
}
