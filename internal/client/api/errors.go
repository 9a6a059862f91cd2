package api

import "errors"

var (
	// ErrUnavailable classifies every outcome that carries no definitive
	// remote verdict: connection failures, timeouts, non-2xx statuses and
	// malformed bodies. Callers must treat it as retryable and must never
	// derive a rejection from it.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned for bad credentials and for submissions
	// attempted without a live session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrLocalDataNotAvailable is returned by the offline-login path when
	// no credential has ever been cached for the collector.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")

	// ErrBatchUnsupported signals that the gateway does not expose the
	// batch submission endpoint; the caller falls back to per-event calls.
	ErrBatchUnsupported = errors.New("batch submission unsupported")
)
