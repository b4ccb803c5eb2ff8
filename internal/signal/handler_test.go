package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Signal_CancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGTERM)

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	cause := context.Cause(h.Context())
	require.ErrorIs(t, cause, context.Canceled)
	assert.Contains(t, cause.Error(), "terminated")
	assert.Equal(t, syscall.SIGTERM, h.Received())
}

func TestHandler_Signal_ClosesInterruptedChannel(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)

	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed after signal")
	}
}

func TestHandler_MultipleSignals_FirstWins(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)
	h.handleSignal(syscall.SIGTERM)

	assert.Equal(t, syscall.SIGINT, h.Received())
}

func TestHandler_Stop(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.Nil(t, h.Received())

	select {
	case <-h.Interrupted():
		t.Fatal("interrupted channel should stay open when stopped without a signal")
	default:
	}
}

func TestHandler_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("handler context should follow parent cancellation")
	}
}
