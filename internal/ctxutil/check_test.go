package ctxutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitplummer/goa/internal/ctxutil"
)

func TestCanceled(t *testing.T) {
	t.Parallel()

	t.Run("active context", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ctxutil.Canceled(context.Background()))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, ctxutil.Canceled(ctx), context.Canceled)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		<-ctx.Done()
		require.ErrorIs(t, ctxutil.Canceled(ctx), context.DeadlineExceeded)
	})
}
