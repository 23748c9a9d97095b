// Package services implements the AI orchestration layer. Each service
// renders a deterministic prompt for one use case, invokes the model
// client, and decodes the reply leniently: missing or malformed fields
// are replaced with typed defaults and reported on the result instead
// of failing the call.
package services

import (
	"context"
	"time"
)

// callTimeout bounds a single upstream model call. A zero or negative
// timeout leaves the caller's context untouched.
func callTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// clampPercent forces a percentage into [0,100]. Model arithmetic is
// not trusted to stay in range.
func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
