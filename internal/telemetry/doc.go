// Package telemetry implements the per-subscription streaming core: sample
// generation, subscription validation, the environment-scoped access gate,
// and the StreamSession state machine that paces samples onto a Sink until
// the caller cancels.
//
// The package knows nothing about gRPC or HTTP. Transports adapt their
// stream type to Sink and pass the request context and caller identity in
// explicitly.
//
// Example:
//
//	sub := telemetry.Subscription{SourceID: "sensor-1", IntervalMs: 100}
//	if err := telemetry.Validate(sub, telemetry.DefaultLimits()); err != nil {
//	    return err
//	}
//	gate := telemetry.NewGate(telemetry.Production, logger)
//	if err := gate.Authorize(caller); err != nil {
//	    return err
//	}
//	sess, _ := telemetry.NewSession(telemetry.SessionOptions{
//	    Subscription: sub,
//	    Caller:       caller,
//	    Source:       telemetry.NewUniformSource(clock.New(), 0),
//	    Sink:         sink,
//	    Observer:     logger,
//	})
//	outcome, err := sess.Run(ctx)
package telemetry
