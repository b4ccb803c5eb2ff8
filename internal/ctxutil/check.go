// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context error once ctx is done and nil before that.
// Cycle stages call it on entry so a shutdown request stops the pipeline
// between stages.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
