// Package common defines shared constants and sentinel errors used across
// client and server layers of handshare. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Domain errors of the pairing/handoff workflow. The HTTP layer maps
	// these to status codes and wire kinds; the client maps them back.
	ErrorInvalidUser     = errors.New("invalid user")
	ErrorForbidden       = errors.New("forbidden")
	ErrorAlreadyPaired   = errors.New("already paired")
	ErrorPayloadTooLarge = errors.New("payload too large")
	ErrorInvalidPayload  = errors.New("invalid payload")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Client-side transport failure: no usable response was obtained.
	// Never conflated with the domain errors above.
	ErrorTransport = errors.New("transport failure")
)
