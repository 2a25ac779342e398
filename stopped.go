package sendr

import (
	"context"
	"sync/atomic"
)

// StoppedSender completes inline with done. It is the cancellation
// analogue of Just: connect it under a chain of transforms to assert
// that none of their functions run.
type StoppedSender[T any] struct {
	name Name
}

// Stopped creates a sender that completes inline with done.
func Stopped[T any](name Name) *StoppedSender[T] {
	return &StoppedSender[T]{name: name}
}

// Connect binds a receiver and returns the live operation.
func (s *StoppedSender[T]) Connect(r Receiver[T]) Operation {
	return &stoppedOperation[T]{receiver: r}
}

// ConnectOnce binds a receiver, behaving identically to Connect.
func (s *StoppedSender[T]) ConnectOnce(r Receiver[T]) (Operation, error) {
	return s.Connect(r), nil
}

// Blocking reports BlockingAlwaysInline.
func (s *StoppedSender[T]) Blocking() Blocking {
	return BlockingAlwaysInline
}

// ValueShapes reports the empty set.
func (s *StoppedSender[T]) ValueShapes() []Shape {
	return nil
}

// ErrorShapes reports the empty set: done carries no error.
func (s *StoppedSender[T]) ErrorShapes() []Shape {
	return nil
}

// Name returns the name of this sender.
func (s *StoppedSender[T]) Name() Name {
	return s.name
}

type stoppedOperation[T any] struct {
	receiver Receiver[T]
	started  atomic.Bool
}

func (o *stoppedOperation[T]) Start(ctx context.Context) {
	if !o.started.CompareAndSwap(false, true) {
		panic("sendr: operation started twice")
	}
	o.receiver.AcceptDone(ctx)
}
