package sendr

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// transformReceiver intercepts the predecessor's terminal signal for
// one connected operation. The value signal runs the stage's function
// inline on the delivering goroutine; error and done pass through
// untouched. It is consumed by its single delivery: the terminal flag
// is the only synchronization in the signal path, and it exists to
// turn a protocol violation into a loud panic rather than a silent
// double delivery.
type transformReceiver[In, Out any] struct {
	name       Name
	opID       string
	fn         func(context.Context, In) (Out, error)
	downstream Receiver[Out]
	terminal   atomic.Bool

	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[TransformEvent]
}

// AcceptValue invokes the function with the payload. On success the
// result is forwarded as this operation's value signal; on failure
// (error return or panic) a single error signal carrying *Error[In] is
// forwarded instead, and the value signal is never delivered.
func (r *transformReceiver[In, Out]) AcceptValue(ctx context.Context, value In) {
	r.complete(SignalValue)
	r.metrics.Counter(TransformProcessedTotal).Inc()

	ctx, span := r.tracer.StartSpan(ctx, TransformApplySpan)
	span.SetTag(TransformTagStage, string(r.name))
	span.SetTag(TransformTagOperation, r.opID)

	start := r.clock.Now()
	out, err := r.invoke(ctx, value)
	duration := r.clock.Now().Sub(start)

	if err != nil {
		span.SetTag(TransformTagSuccess, "false")
		span.SetTag(TransformTagError, err.Error())
		span.Finish()
		r.metrics.Counter(TransformFailuresTotal).Inc()

		_ = r.hooks.Emit(ctx, TransformEventFailure, TransformEvent{ //nolint:errcheck
			Name:        r.name,
			OperationID: r.opID,
			Signal:      SignalError,
			Success:     false,
			Error:       err,
			Duration:    duration,
			Timestamp:   r.clock.Now(),
		})

		r.downstream.AcceptError(ctx, &Error[In]{
			Path:      []Name{r.name},
			InputData: value,
			Err:       err,
			Timestamp: r.clock.Now(),
			Duration:  duration,
			Timeout:   errors.Is(err, context.DeadlineExceeded),
			Canceled:  errors.Is(err, context.Canceled),
		})
		return
	}

	span.SetTag(TransformTagSuccess, "true")
	span.Finish()
	r.metrics.Counter(TransformValuesTotal).Inc()

	_ = r.hooks.Emit(ctx, TransformEventValue, TransformEvent{ //nolint:errcheck
		Name:        r.name,
		OperationID: r.opID,
		Signal:      SignalValue,
		Success:     true,
		Duration:    duration,
		Timestamp:   r.clock.Now(),
	})

	r.downstream.AcceptValue(ctx, out)
}

// AcceptError forwards a predecessor error downstream unchanged. The
// function is never invoked.
func (r *transformReceiver[In, Out]) AcceptError(ctx context.Context, err error) {
	r.complete(SignalError)
	r.metrics.Counter(TransformProcessedTotal).Inc()
	r.metrics.Counter(TransformErrorsTotal).Inc()

	_ = r.hooks.Emit(ctx, TransformEventUpstreamError, TransformEvent{ //nolint:errcheck
		Name:        r.name,
		OperationID: r.opID,
		Signal:      SignalError,
		Success:     false,
		Error:       err,
		Timestamp:   r.clock.Now(),
	})

	r.downstream.AcceptError(ctx, err)
}

// AcceptDone forwards a predecessor done signal downstream unchanged.
// The function is never invoked.
func (r *transformReceiver[In, Out]) AcceptDone(ctx context.Context) {
	r.complete(SignalDone)
	r.metrics.Counter(TransformProcessedTotal).Inc()
	r.metrics.Counter(TransformDoneTotal).Inc()

	_ = r.hooks.Emit(ctx, TransformEventDone, TransformEvent{ //nolint:errcheck
		Name:        r.name,
		OperationID: r.opID,
		Signal:      SignalDone,
		Success:     true,
		Timestamp:   r.clock.Now(),
	})

	r.downstream.AcceptDone(ctx)
}

// invoke runs the function with panic recovery. A recovered panic is
// reported as an error wrapping a sanitized panicError so the failure
// path is the same one an error return takes.
func (r *transformReceiver[In, Out]) invoke(ctx context.Context, value In) (out Out, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.Counter(TransformPanicsTotal).Inc()
			var zero Out
			out = zero
			err = newPanicError(rec)
		}
	}()
	return r.fn(ctx, value)
}

// complete claims this receiver's single delivery. A second signal on
// the same operation is a protocol violation: it is counted, then
// panics, because continuing would deliver two terminal signals
// downstream.
func (r *transformReceiver[In, Out]) complete(s Signal) {
	if !r.terminal.CompareAndSwap(false, true) {
		r.metrics.Counter(TransformViolations).Inc()
		panic(fmt.Sprintf("sendr: %s signal delivered to completed operation %s of stage %q", s, r.opID, r.name))
	}
}

// Blocking delegates the query to the downstream receiver unchanged.
func (r *transformReceiver[In, Out]) Blocking() Blocking {
	if q, ok := r.downstream.(BlockingQuerier); ok {
		return q.Blocking()
	}
	return BlockingUnknown
}

// VisitContinuations exposes the downstream receiver to diagnostic
// chain walkers.
func (r *transformReceiver[In, Out]) VisitContinuations(visit func(interface{})) {
	visit(r.downstream)
}
