// Package requestcontext carries request-scoped values through a context
// without importing net/http. Middleware writes them; services, checks and
// the CLI read them.
//
//	now := requestcontext.Now(ctx)
//	ctx = requestcontext.WithTime(ctx, fixedTime) // tests, herbctl --as-of
package requestcontext

import (
	"context"
	"time"
)

type metadataKey struct{}

// metadata is copied on every write so contexts handed to concurrent checks
// never observe each other's changes.
type metadata struct {
	requestID string
	clientIP  string
	userAgent string
	at        time.Time
}

func from(ctx context.Context) metadata {
	if m, ok := ctx.Value(metadataKey{}).(metadata); ok {
		return m
	}
	return metadata{}
}

func with(ctx context.Context, update func(*metadata)) context.Context {
	m := from(ctx)
	update(&m)
	return context.WithValue(ctx, metadataKey{}, m)
}

// RequestID returns the request ID, or "" outside a request.
func RequestID(ctx context.Context) string { return from(ctx).requestID }

// ClientIP returns the caller's address, or "".
func ClientIP(ctx context.Context) string { return from(ctx).clientIP }

// UserAgent returns the caller's User-Agent, or "".
func UserAgent(ctx context.Context) string { return from(ctx).userAgent }

// WithRequestID stores a request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, func(m *metadata) { m.requestID = requestID })
}

// WithClientMetadata stores the caller's address and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return with(ctx, func(m *metadata) {
		m.clientIP = clientIP
		m.userAgent = userAgent
	})
}

// Now returns the pinned request time, falling back to the wall clock.
// Every check of one validation sees the same "now" once it is pinned.
func Now(ctx context.Context) time.Time {
	if at := from(ctx).at; !at.IsZero() {
		return at
	}
	return time.Now()
}

// WithTime pins the request time.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return with(ctx, func(m *metadata) { m.at = t })
}
