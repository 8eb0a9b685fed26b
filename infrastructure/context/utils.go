// Package context holds the timeouts used for short infrastructure calls.
package context

import (
	"context"
	"time"
)

const (
	DefaultPingTimeout    = 5 * time.Second
	DefaultPublishTimeout = 5 * time.Second
)

// WithPingTimeout bounds a connectivity check.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}

// WithPublishTimeout bounds a fire-and-forget publish that must outlive
// the request that triggered it.
func WithPublishTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultPublishTimeout)
}
