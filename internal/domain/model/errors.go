package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scoring engine. Handlers translate them to HTTP
// status codes with errors.Is; repositories wrap them with context.
var (
	// ErrInvalidInput marks malformed coordinates, non-positive resolutions
	// and oversized grid requests. Always raised before any I/O.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable marks an unreachable database or cache store.
	// The engine never retries; the caller decides.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPOINotFound is returned by nearest-POI lookups when no POI of the
	// requested type exists. Not an error state for scoring: the type is
	// simply excluded and the remaining weights renormalized.
	ErrPOINotFound = errors.New("no poi of requested type found")

	// ErrCacheMiss is returned by cache repositories when a key is absent.
	ErrCacheMiss = errors.New("cache miss")
)

// ConfigError is a fatal scoring-configuration problem (weights not summing
// to 1, missing decay parameters). Raised at startup, never per-request.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scoring config: %s: %s", e.Field, e.Message)
}
