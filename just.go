package sendr

import (
	"context"
	"sync/atomic"
)

// JustSender completes inline with a fixed value. It is the canonical
// leaf of a pipeline: connect it under a chain of transforms and every
// operation started from the chain begins with this value.
//
// If the context passed to Start is already canceled, the operation
// completes with done instead; the value is never delivered.
type JustSender[T any] struct {
	name  Name
	value T
}

// Just creates a sender that completes inline with value.
func Just[T any](name Name, value T) *JustSender[T] {
	return &JustSender[T]{name: name, value: value}
}

// Connect binds a receiver and returns the live operation. The sender
// remains connectable; each connection delivers the same value
// independently.
func (s *JustSender[T]) Connect(r Receiver[T]) Operation {
	return &justOperation[T]{value: s.value, receiver: r}
}

// ConnectOnce binds a receiver, behaving identically to Connect: a
// value sender has nothing to consume.
func (s *JustSender[T]) ConnectOnce(r Receiver[T]) (Operation, error) {
	return s.Connect(r), nil
}

// Blocking reports BlockingAlwaysInline: the signal is delivered on
// the starting goroutine before Start returns, without blocking.
func (s *JustSender[T]) Blocking() Blocking {
	return BlockingAlwaysInline
}

// ValueShapes reports the single payload shape T.
func (s *JustSender[T]) ValueShapes() []Shape {
	return []Shape{ShapeOf[T]()}
}

// ErrorShapes reports the empty set: a value sender never fails.
func (s *JustSender[T]) ErrorShapes() []Shape {
	return nil
}

// Name returns the name of this sender.
func (s *JustSender[T]) Name() Name {
	return s.name
}

type justOperation[T any] struct {
	value    T
	receiver Receiver[T]
	started  atomic.Bool
}

func (o *justOperation[T]) Start(ctx context.Context) {
	if !o.started.CompareAndSwap(false, true) {
		panic("sendr: operation started twice")
	}
	if ctx.Err() != nil {
		o.receiver.AcceptDone(ctx)
		return
	}
	o.receiver.AcceptValue(ctx, o.value)
}
