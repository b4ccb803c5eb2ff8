//go:build unix

package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_RealSignal(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-h.Interrupted():
	case <-time.After(2 * time.Second):
		t.Fatal("expected SIGINT to be delivered")
	}
	assert.Equal(t, syscall.SIGINT, h.Received())
}
