// Package signal turns SIGINT and SIGTERM into context cancellation so the
// polling loop can stop between cycles.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context when SIGINT or SIGTERM arrives.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelCauseFunc
	interrupted chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
	sigChan     chan os.Signal

	mu       sync.Mutex
	received os.Signal
}

// NewHandler creates a signal handler derived from parent.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := scheduler.Run(h.Context())
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancelCause(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// Buffered so signal.Notify never drops a signal while we are busy.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context that is cancelled on the first signal.
// context.Cause reports which signal stopped it.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel that closes when a signal is received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Received returns the first signal delivered, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops listening for signals and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel(context.Canceled)
	})
}

// handleSignal records sig and cancels the context. Only the first call
// has an effect.
func (h *Handler) handleSignal(sig os.Signal) {
	h.once.Do(func() {
		h.mu.Lock()
		h.received = sig
		h.mu.Unlock()
		h.cancel(fmt.Errorf("received %v: %w", sig, context.Canceled))
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}
