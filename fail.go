package sendr

import (
	"context"
	"sync/atomic"
)

// FailSender completes inline with a fixed error. Useful as the leaf
// of error-path tests and as the degenerate pipeline for work that is
// known to be impossible before it starts.
type FailSender[T any] struct {
	name Name
	err  error
}

// FailWith creates a sender that completes inline with err.
func FailWith[T any](name Name, err error) *FailSender[T] {
	return &FailSender[T]{name: name, err: err}
}

// Connect binds a receiver and returns the live operation.
func (s *FailSender[T]) Connect(r Receiver[T]) Operation {
	return &failOperation[T]{err: s.err, receiver: r}
}

// ConnectOnce binds a receiver, behaving identically to Connect.
func (s *FailSender[T]) ConnectOnce(r Receiver[T]) (Operation, error) {
	return s.Connect(r), nil
}

// Blocking reports BlockingAlwaysInline.
func (s *FailSender[T]) Blocking() Blocking {
	return BlockingAlwaysInline
}

// ValueShapes reports the empty set: this sender never completes with
// a value.
func (s *FailSender[T]) ValueShapes() []Shape {
	return nil
}

// ErrorShapes reports the dynamic shape of the stored error.
func (s *FailSender[T]) ErrorShapes() []Shape {
	return []Shape{shapeOfValue(s.err)}
}

// Name returns the name of this sender.
func (s *FailSender[T]) Name() Name {
	return s.name
}

type failOperation[T any] struct {
	err      error
	receiver Receiver[T]
	started  atomic.Bool
}

func (o *failOperation[T]) Start(ctx context.Context) {
	if !o.started.CompareAndSwap(false, true) {
		panic("sendr: operation started twice")
	}
	o.receiver.AcceptError(ctx, o.err)
}
