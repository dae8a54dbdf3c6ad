package providers

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors classifying every way a backend call can fail. Adapters
// wrap these with detail via fmt.Errorf("...: %w", Err...).
var (
	// ErrUnavailable means the backend is unreachable or returned a server
	// error.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrTimeout means the call exceeded the adapter's configured ceiling.
	ErrTimeout = errors.New("provider timeout")

	// ErrRateLimited means the backend rejected the call with a quota error.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrAuth means the backend rejected the configured credential.
	ErrAuth = errors.New("provider authentication failed")

	// ErrProtocol means the response arrived but its shape was unexpected.
	ErrProtocol = errors.New("provider protocol error")

	// ErrUnconfigured means the adapter is missing a credential or endpoint.
	ErrUnconfigured = errors.New("provider not configured")
)

// classifyTransportErr maps a transport-level failure to ErrTimeout or
// ErrUnavailable. Deadline expiry counts as a timeout whether it surfaced
// through the context or the net layer.
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}
