package telemetry

import (
	"errors"
	"fmt"
)

// ValidationKind enumerates subscription rejections.
type ValidationKind int

const (
	MissingSourceID ValidationKind = iota + 1
	IntervalOutOfRange
	InvalidFilter
)

func (k ValidationKind) String() string {
	switch k {
	case MissingSourceID:
		return "missing_source_id"
	case IntervalOutOfRange:
		return "interval_out_of_range"
	case InvalidFilter:
		return "invalid_filter"
	default:
		return "unknown"
	}
}

// ValidationError rejects a subscription before any session state exists.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthorizationError is returned by the Gate when a caller may not subscribe.
type AuthorizationError struct {
	// Peer is the correlation token of the denied caller.
	Peer string
}

func (e *AuthorizationError) Error() string { return "unauthenticated" }

// EmissionKind distinguishes where an active session failed.
type EmissionKind int

const (
	GenerationFault EmissionKind = iota + 1
	DeliveryFault
)

func (k EmissionKind) String() string {
	switch k {
	case GenerationFault:
		return "generation"
	case DeliveryFault:
		return "delivery"
	default:
		return "unknown"
	}
}

// EmissionError terminates an active session.
type EmissionError struct {
	Kind EmissionKind
	Err  error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("%s fault: %v", e.Kind, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnauthenticated reports whether err is, or wraps, an *AuthorizationError.
func IsUnauthenticated(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsEmission reports whether err is, or wraps, an *EmissionError.
func IsEmission(err error) bool {
	var ee *EmissionError
	return errors.As(err, &ee)
}
