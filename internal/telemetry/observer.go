package telemetry

import logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"

// Observer receives lifecycle and progress records. logpkg.Logger satisfies
// it; tests substitute a recorder.
type Observer interface {
	Debug(msg string, fields ...logpkg.Field)
	Info(msg string, fields ...logpkg.Field)
	Warn(msg string, fields ...logpkg.Field)
	Error(msg string, fields ...logpkg.Field)
}
