// internal/app/system/timeouts/timeouts.go

// Package timeouts centralizes the per-request deadline tiers used when
// deriving contexts for database and upstream calls.
package timeouts

import (
	"context"
	"time"
)

// Short is for single-document reads and writes.
func Short() time.Duration { return 5 * time.Second }

// Medium is for list queries and multi-step handlers.
func Medium() time.Duration { return 10 * time.Second }

// Long is for bulk operations and proxied upstream calls.
func Long() time.Duration { return 30 * time.Second }

// WithShort derives a context with the Short deadline.
func WithShort(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, Short())
}

// WithMedium derives a context with the Medium deadline.
func WithMedium(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, Medium())
}
