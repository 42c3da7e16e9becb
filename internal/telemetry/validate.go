package telemetry

import (
	"fmt"
	"strings"
)

// Validate checks sub against limits. It has no side effects and must run
// before authorization and before any session is allocated.
func Validate(sub Subscription, limits Limits) error {
	if strings.TrimSpace(sub.SourceID) == "" {
		return &ValidationError{Kind: MissingSourceID, Message: "source_id is required"}
	}
	if sub.IntervalMs < limits.MinIntervalMs || sub.IntervalMs > limits.MaxIntervalMs {
		return &ValidationError{
			Kind:    IntervalOutOfRange,
			Message: fmt.Sprintf("interval_ms must be between %d and %d", limits.MinIntervalMs, limits.MaxIntervalMs),
		}
	}
	return nil
}
