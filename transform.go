package sendr

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Transform stage observability.
const (
	TransformProcessedTotal = metricz.Key("transform.processed.total")
	TransformValuesTotal    = metricz.Key("transform.values.total")
	TransformErrorsTotal    = metricz.Key("transform.errors.total")
	TransformDoneTotal      = metricz.Key("transform.done.total")
	TransformFailuresTotal  = metricz.Key("transform.failures.total")
	TransformPanicsTotal    = metricz.Key("transform.panics.total")
	TransformViolations     = metricz.Key("transform.protocol.violations.total")
)

// Span names for Transform stages.
const (
	TransformApplySpan = tracez.Key("transform.apply")
)

// Span tags for Transform stages.
const (
	TransformTagStage     = tracez.Tag("transform.stage")
	TransformTagOperation = tracez.Tag("transform.operation")
	TransformTagSuccess   = tracez.Tag("transform.success")
	TransformTagError     = tracez.Tag("transform.error")

	// Hook event keys.
	TransformEventValue         = hookz.Key("transform.value")
	TransformEventFailure       = hookz.Key("transform.failure")
	TransformEventUpstreamError = hookz.Key("transform.upstream-error")
	TransformEventDone          = hookz.Key("transform.done")
)

// TransformEvent represents one terminal signal observed by a
// transform stage. It is emitted via hookz after the corresponding
// downstream signal has been decided, allowing external systems to
// track pipeline completions without sitting in the signal path.
type TransformEvent struct {
	Name        Name          // Stage name
	OperationID string        // Unique id of the connected operation
	Signal      Signal        // Terminal signal delivered downstream
	Success     bool          // False when the function failed
	Error       error         // Failure or forwarded upstream error
	Duration    time.Duration // Function invocation time (value path)
	Timestamp   time.Time     // When the signal was handled
}

// TransformStage is a sender that wraps a predecessor sender with a
// transformation function. It is a template, not a live operation:
// connecting it builds a per-operation receiver around the downstream
// receiver and delegates the connection to the predecessor. When the
// predecessor eventually completes with a value, the function runs
// inline on the delivering goroutine and its result becomes this
// stage's value signal; a failure inside the function becomes a single
// error signal carrying *Error[In]; upstream error and done signals
// pass through untouched without invoking the function.
//
// A stage may be connected any number of times via Connect - each
// connection is an independent operation - or exactly once via
// ConnectOnce. Predecessor and function are fixed at construction.
//
// # Observability
//
// Each stage owns a metrics registry, a tracer, and typed event hooks
// shared by all operations connected through it:
//
// Metrics:
//   - transform.processed.total: signals observed from the predecessor
//   - transform.values.total: value signals forwarded downstream
//   - transform.errors.total: upstream errors forwarded downstream
//   - transform.done.total: done signals forwarded downstream
//   - transform.failures.total: function failures converted to errors
//   - transform.panics.total: function panics (subset of failures)
//   - transform.protocol.violations.total: duplicate deliveries caught
//
// Traces:
//   - transform.apply: span around the function invocation
//
// Events (via hooks):
//   - transform.value: function succeeded, value forwarded
//   - transform.failure: function failed, error forwarded
//   - transform.upstream-error: predecessor error forwarded
//   - transform.done: predecessor done forwarded
type TransformStage[In, Out any] struct {
	pred Sender[In]
	fn   func(context.Context, In) (Out, error)
	name Name

	mu       sync.RWMutex
	consumed bool
	clock    clockz.Clock

	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[TransformEvent]
}

// Transform creates a stage that applies a fallible function to the
// predecessor's value completions. An error return (or a panic) inside
// fn is captured exactly once at the invocation site and delivered
// downstream as a single error signal carrying *Error[In]; the value
// signal is never delivered in that case.
//
// Example:
//
//	parse := sendr.Transform("parse_json", fetch,
//	    func(_ context.Context, raw []byte) (Doc, error) {
//	        var d Doc
//	        return d, json.Unmarshal(raw, &d)
//	    })
func Transform[In, Out any](name Name, pred Sender[In], fn func(context.Context, In) (Out, error)) *TransformStage[In, Out] {
	registry := metricz.New()
	registry.Counter(TransformProcessedTotal)
	registry.Counter(TransformValuesTotal)
	registry.Counter(TransformErrorsTotal)
	registry.Counter(TransformDoneTotal)
	registry.Counter(TransformFailuresTotal)
	registry.Counter(TransformPanicsTotal)
	registry.Counter(TransformViolations)

	return &TransformStage[In, Out]{
		name:    name,
		pred:    pred,
		fn:      fn,
		metrics: registry,
		tracer:  tracez.New(),
		hooks:   hookz.New[TransformEvent](),
	}
}

// TransformPure creates a stage from a function that cannot return an
// error. Prefer it over Transform when the transformation is total:
// the error branch disappears from the caller's code, not from the
// protocol - panics are still recovered and the stage still declares
// the wrapped-failure error shape, so downstream behavior is identical
// to the general form.
//
// Example:
//
//	double := sendr.TransformPure("double", src,
//	    func(_ context.Context, n int) int { return n * 2 })
func TransformPure[In, Out any](name Name, pred Sender[In], fn func(context.Context, In) Out) *TransformStage[In, Out] {
	return Transform(name, pred, func(ctx context.Context, value In) (Out, error) {
		return fn(ctx, value), nil
	})
}

// TransformVoid creates a stage whose function produces no meaningful
// payload. The resulting sender completes with the payload-less value
// signal (T = struct{}) when fn succeeds.
//
// Example:
//
//	persist := sendr.TransformVoid("persist", build,
//	    func(ctx context.Context, rec Record) error {
//	        return store.Put(ctx, rec)
//	    })
func TransformVoid[In any](name Name, pred Sender[In], fn func(context.Context, In) error) *TransformStage[In, struct{}] {
	return Transform(name, pred, func(ctx context.Context, value In) (struct{}, error) {
		return struct{}{}, fn(ctx, value)
	})
}

// Connect binds a downstream receiver to this stage and returns the
// live operation, leaving the stage connectable again. The connection
// is delegated to the predecessor with a per-operation receiver
// wrapped around r.
func (s *TransformStage[In, Out]) Connect(r Receiver[Out]) Operation {
	s.mu.RLock()
	pred, fn := s.pred, s.fn
	s.mu.RUnlock()
	return pred.Connect(s.wrap(fn, r))
}

// ConnectOnce binds a downstream receiver to this stage, consuming it:
// the predecessor is consumed too, and any later ConnectOnce fails
// with ErrStageConsumed. Use it for pipelines that are built, run
// once, and dropped.
func (s *TransformStage[In, Out]) ConnectOnce(r Receiver[Out]) (Operation, error) {
	s.mu.Lock()
	if s.consumed {
		s.mu.Unlock()
		return nil, ErrStageConsumed
	}
	s.consumed = true
	pred, fn := s.pred, s.fn
	s.mu.Unlock()
	return pred.ConnectOnce(s.wrap(fn, r))
}

func (s *TransformStage[In, Out]) wrap(fn func(context.Context, In) (Out, error), r Receiver[Out]) *transformReceiver[In, Out] {
	return &transformReceiver[In, Out]{
		name:       s.name,
		opID:       uuid.NewString(),
		fn:         fn,
		downstream: r,
		clock:      s.getClock(),
		metrics:    s.metrics,
		tracer:     s.tracer,
		hooks:      s.hooks,
	}
}

// Blocking reports exactly the predecessor's classification; a
// transform never blocks or un-blocks an operation on its own.
func (s *TransformStage[In, Out]) Blocking() Blocking {
	return s.pred.Blocking()
}

// ValueShapes maps every value shape the predecessor may produce to
// the function's result shape and deduplicates. A predecessor that
// never completes with a value keeps the empty set; a struct{} result
// means the stage completes with no payload.
func (s *TransformStage[In, Out]) ValueShapes() []Shape {
	if len(s.pred.ValueShapes()) == 0 {
		return nil
	}
	return []Shape{ShapeOf[Out]()}
}

// ErrorShapes is the union of the predecessor's error shapes and the
// generic wrapped-failure shape *Error[In]. The wrapped-failure shape
// is declared unconditionally - even for TransformPure over a
// never-failing predecessor - so the interface stays uniform across
// all instantiations.
func (s *TransformStage[In, Out]) ErrorShapes() []Shape {
	return MergeShapes(s.pred.ErrorShapes(), []Shape{ShapeOf[*Error[In]]()})
}

// Name returns the name of this stage.
func (s *TransformStage[In, Out]) Name() Name {
	return s.name
}

// Predecessor returns the wrapped sender.
func (s *TransformStage[In, Out]) Predecessor() Sender[In] {
	return s.pred
}

// WithClock sets the clock used for event timestamps and failure
// durations. Pass clockz.NewFakeClock() in tests to control time.
func (s *TransformStage[In, Out]) WithClock(clock clockz.Clock) *TransformStage[In, Out] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
	return s
}

func (s *TransformStage[In, Out]) getClock() clockz.Clock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clock == nil {
		return clockz.RealClock
	}
	return s.clock
}

// Metrics returns the metrics registry for this stage.
func (s *TransformStage[In, Out]) Metrics() *metricz.Registry {
	return s.metrics
}

// Tracer returns the tracer for this stage.
func (s *TransformStage[In, Out]) Tracer() *tracez.Tracer {
	return s.tracer
}

// Close gracefully shuts down observability components. Operations
// already connected keep working; their events are simply no longer
// delivered.
func (s *TransformStage[In, Out]) Close() error {
	if s.tracer != nil {
		s.tracer.Close()
	}
	s.hooks.Close()
	return nil
}

// OnValue registers a handler for successful function invocations.
// The handler is called asynchronously after the value signal has been
// forwarded downstream.
func (s *TransformStage[In, Out]) OnValue(handler func(context.Context, TransformEvent) error) error {
	_, err := s.hooks.Hook(TransformEventValue, handler)
	return err
}

// OnFailure registers a handler for function failures (error returns
// and panics). The handler is called asynchronously after the error
// signal has been forwarded downstream.
func (s *TransformStage[In, Out]) OnFailure(handler func(context.Context, TransformEvent) error) error {
	_, err := s.hooks.Hook(TransformEventFailure, handler)
	return err
}

// OnUpstreamError registers a handler for predecessor errors forwarded
// through this stage.
func (s *TransformStage[In, Out]) OnUpstreamError(handler func(context.Context, TransformEvent) error) error {
	_, err := s.hooks.Hook(TransformEventUpstreamError, handler)
	return err
}

// OnDone registers a handler for done signals forwarded through this
// stage.
func (s *TransformStage[In, Out]) OnDone(handler func(context.Context, TransformEvent) error) error {
	_, err := s.hooks.Hook(TransformEventDone, handler)
	return err
}
