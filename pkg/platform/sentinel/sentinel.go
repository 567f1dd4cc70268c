package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and collaborator
// clients return these (optionally wrapped) so services can translate them into
// domain errors or degraded check results.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: key or record does not exist (or its cache entry is stale)
// - ErrExpired: cached value is older than its TTL
// - ErrUnavailable: backing service temporarily unavailable
// - ErrNotConfigured: optional collaborator has no credentials or endpoint
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrExpired       = errors.New("expired")
	ErrUnavailable   = errors.New("unavailable")
	ErrNotConfigured = errors.New("not configured")
)
