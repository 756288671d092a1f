package logging

import (
	"context"
	"time"
)

// DetachContext creates a context that is not cancelled when its parent
// is. Post-hoc bookkeeping such as the usage-counter write must finish
// even when the request that triggered it has already timed out.
func DetachContext(parent context.Context) context.Context {
	return context.WithoutCancel(parent)
}

// DetachContextWithTimeout creates a detached context with its own
// deadline, independent of the parent's cancellation status.
//
// Example usage:
//
//	recCtx, cancel := logging.DetachContextWithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	err := store.Record(recCtx, tool)
func DetachContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(parent)
	return context.WithTimeout(detached, timeout)
}
