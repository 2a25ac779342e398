// Package sendr provides a typed sender/receiver protocol for asynchronous
// operations and the transform combinator that composes them.
//
// # Overview
//
// sendr models an asynchronous operation as an inert description (a Sender)
// that does nothing until a consumer (a Receiver) is connected to it. The
// connected pair forms an Operation, and starting the operation eventually
// delivers exactly one terminal completion signal to the receiver: a value,
// an error, or done (cancellation). The library's centerpiece is Transform,
// which wraps a predecessor sender with a function so that successful
// completions flow through the function while errors and cancellation pass
// through untouched.
//
// # Core Concepts
//
// The protocol is three small interfaces:
//
//   - Sender[T]: an inert, connectable description of work that will
//     eventually produce a T, fail, or be stopped
//   - Receiver[T]: a consumer of exactly one terminal signal via
//     AcceptValue, AcceptError, or AcceptDone
//   - Operation: a connected, not-yet-completed operation with Start
//
// Senders declare their completion shapes (ValueShapes, ErrorShapes) and a
// Blocking classification so tooling can inspect a composed pipeline before
// running it. Combinators never invent a classification of their own; they
// report their predecessor's.
//
// # Quick Start
//
//	double := sendr.TransformPure("double",
//	    sendr.Just("seed", 5),
//	    func(_ context.Context, n int) int { return n * 2 },
//	)
//
//	op := double.Connect(sendr.NewReceiver(
//	    func(_ context.Context, n int) { fmt.Println("value:", n) },
//	    func(_ context.Context, err error) { fmt.Println("error:", err) },
//	    func(_ context.Context) { fmt.Println("done") },
//	))
//	op.Start(context.Background())
//	// Output: value: 10
//
// Transform accepts a fallible function; TransformPure narrows the signature
// for functions that cannot return an error; TransformVoid collapses the
// result to a payload-less completion (T = struct{}).
//
// # Completion Discipline
//
// Exactly one terminal signal is delivered per connected operation, exactly
// once. The transform function runs inline on whatever goroutine the
// predecessor used to deliver its value signal; no goroutine hop, lock, or
// queue is introduced. Delivering a second signal, or starting an operation
// twice, is a protocol violation and panics.
//
// # Error Handling
//
// A failure inside the supplied function - an error return or a panic - is
// captured exactly once at the invocation site and delivered downstream as
// a single error signal carrying *Error[In]:
//
//	result, err := ...
//	var stageErr *sendr.Error[Order]
//	if errors.As(err, &stageErr) {
//	    log.Printf("failed at %v with input %+v: %v",
//	        stageErr.Path, stageErr.InputData, stageErr.Err)
//	}
//
// Upstream errors and done signals are forwarded unchanged; the function is
// never invoked for them. Cancellation is a first-class signal, not an
// error.
//
// # Observability
//
// Every stage carries its own metrics registry, tracer, and typed event
// hooks:
//
//	stage := sendr.Transform("parse", fetch, parseFunc)
//	stage.OnFailure(func(_ context.Context, e sendr.TransformEvent) error {
//	    log.Printf("parse failed (op %s): %v", e.OperationID, e.Error)
//	    return nil
//	})
//	...
//	failures := stage.Metrics().Counter(sendr.TransformFailuresTotal).Value()
//
// Timestamps and durations come from an injectable clock (WithClock), so
// time-sensitive behavior is testable with a fake clock.
package sendr
