package sendr

import (
	"context"
	"errors"
)

// Name is a type alias for sender and stage names. Using this type
// encourages storing names as constants rather than inline strings
// throughout your code. Names appear in Error[T].Path and in emitted
// events, so descriptive, action-oriented names ("parse_json", not
// "json") pay off when debugging a composed pipeline.
type Name = string

// Signal identifies which of the three terminal completion signals an
// operation delivered. Exactly one signal is delivered per connected
// operation.
type Signal int

const (
	// SignalValue is a successful completion carrying a payload.
	SignalValue Signal = iota
	// SignalError is a failed completion carrying an error.
	SignalError
	// SignalDone is a cancellation completion. Done is not an error:
	// it means the operation stopped before producing a result.
	SignalDone
)

// String returns the lowercase name of the signal.
func (s Signal) String() string {
	switch s {
	case SignalValue:
		return "value"
	case SignalError:
		return "error"
	case SignalDone:
		return "done"
	default:
		return "unknown"
	}
}

// Receiver consumes exactly one terminal completion signal from a
// connected operation. Implementations must tolerate being invoked from
// whatever goroutine the sender completes on, but never concurrently
// and never more than once: the protocol guarantees a single delivery
// per operation.
//
// Payload-less completions are modeled as T = struct{}.
type Receiver[T any] interface {
	// AcceptValue delivers a successful completion with its payload.
	AcceptValue(ctx context.Context, value T)
	// AcceptError delivers a failed completion.
	AcceptError(ctx context.Context, err error)
	// AcceptDone delivers a cancellation completion.
	AcceptDone(ctx context.Context)
}

// Sender is an inert description of an asynchronous operation. Nothing
// runs until a receiver is connected and the returned operation is
// started. A sender also answers static queries about itself: the
// payload and error shapes it may eventually produce, and whether it
// completes inline, asynchronously, or unpredictably.
//
// Connect may be called any number of times; each call produces an
// independent operation. ConnectOnce consumes the sender: it is the
// single-shot variant for senders that cannot (or should not) be run
// twice, and a second consuming connect fails with ErrStageConsumed.
type Sender[T any] interface {
	// Connect binds a receiver to this sender and returns the live
	// operation. The sender remains connectable afterward.
	Connect(r Receiver[T]) Operation
	// ConnectOnce binds a receiver to this sender, consuming it.
	ConnectOnce(r Receiver[T]) (Operation, error)
	// Blocking reports this sender's blocking classification.
	Blocking() Blocking
	// ValueShapes reports every payload shape this sender may complete
	// with, deduplicated. An empty set means the sender never completes
	// with a value.
	ValueShapes() []Shape
	// ErrorShapes reports every error shape this sender may complete
	// with, deduplicated.
	ErrorShapes() []Shape
	// Name returns the name of this sender for debugging and events.
	Name() Name
}

// Operation is a connected, not-yet-completed asynchronous operation.
// The handle must be kept alive until the operation completes; exactly
// one terminal signal is delivered to the connected receiver after
// Start. Starting an operation twice is a protocol violation and
// panics.
type Operation interface {
	Start(ctx context.Context)
}

// BlockingQuerier is the optional query interface a receiver may
// implement to expose its own blocking classification to wrappers
// upstream of it. Combinator receivers delegate the query downstream
// unchanged.
type BlockingQuerier interface {
	Blocking() Blocking
}

// ErrStageConsumed is returned by ConnectOnce when the stage has
// already been consumed by a previous ConnectOnce call.
var ErrStageConsumed = errors.New("sendr: stage already consumed by ConnectOnce")
