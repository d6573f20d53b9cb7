package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager owns a context cancelled by SIGINT (Ctrl+C) or SIGTERM.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
func NewSignalManager() *SignalManager {
	return NewSignalManagerFrom(context.Background())
}

// NewSignalManagerFrom listens for signals on top of a parent context.
func NewSignalManagerFrom(parent context.Context) *SignalManager {
	sm := &SignalManager{}
	sm.ctx, sm.cancel = signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return sm
}

// Context returns the signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Stop stops listening and cancels the context.
func (sm *SignalManager) Stop() {
	sm.cancel()
}
