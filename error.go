package sendr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error provides rich context about a completion failure flowing
// through a pipeline. It wraps the underlying error with the path of
// stage names it passed through, the input that was being processed,
// and timing captured from the owning stage's clock.
//
// Error[T] is also the generic wrapped-failure shape every
// TransformStage declares in its ErrorShapes, regardless of whether
// the stage's function can actually fail: downstream consumers see one
// uniform failure shape no matter where in the pipeline the failure
// originated.
type Error[T any] struct {
	Path      []Name
	InputData T
	Err       error
	Timestamp time.Time
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed message.
func (e *Error[T]) Error() string {
	location := fmt.Sprintf("stage %q", strings.Join(e.Path, "."))
	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is/As.
func (e *Error[T]) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the failure was caused by a deadline.
func (e *Error[T]) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the failure was caused by context
// cancellation. Note this is distinct from the done signal: a canceled
// function invocation is still a failure, while done never carries an
// error at all.
func (e *Error[T]) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// panicError wraps a recovered panic value with a sanitized message so
// arbitrary panic payloads cannot smuggle control characters or
// unbounded text into error output.
type panicError struct {
	value     interface{}
	sanitized string
}

func (p *panicError) Error() string {
	return p.sanitized
}

// maxPanicMessage caps how much of a panic payload is kept in the
// sanitized message.
const maxPanicMessage = 256

func newPanicError(value interface{}) *panicError {
	msg := fmt.Sprintf("%v", value)
	var b strings.Builder
	for _, r := range msg {
		if b.Len() >= maxPanicMessage {
			b.WriteString("...")
			break
		}
		if r == '\n' || r == '\t' || (r >= 0x20 && r != 0x7f) {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return &panicError{
		value:     value,
		sanitized: "panic occurred: " + b.String(),
	}
}
