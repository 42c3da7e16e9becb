package feedsvc

import (
	"errors"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
)

// Category is the caller-facing error class.
type Category int

const (
	InvalidArgument Category = iota + 1
	PermissionDenied
	Internal
)

func (c Category) String() string {
	switch c {
	case InvalidArgument:
		return "invalid_argument"
	case PermissionDenied:
		return "permission_denied"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the only error type Subscribe returns. Message is safe to send to
// the caller.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string { return e.Category.String() + ": " + e.Message }

const genericInternal = "internal error"

// classify maps core errors onto categories. Anything unrecognised becomes
// Internal with a generic message so internal detail never reaches callers.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	var ve *telemetry.ValidationError
	if errors.As(err, &ve) {
		return &Error{Category: InvalidArgument, Message: ve.Message}
	}
	if telemetry.IsUnauthenticated(err) {
		return &Error{Category: PermissionDenied, Message: "authentication required"}
	}
	if telemetry.IsEmission(err) {
		return &Error{Category: Internal, Message: "stream failed"}
	}
	return &Error{Category: Internal, Message: genericInternal}
}

// CategoryOf returns the category of err, or 0 for nil and non-feed errors.
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return 0
}
