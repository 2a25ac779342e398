// Package testing provides test utilities for sendr-based pipelines.
//
// This package includes a recording receiver and a configurable mock
// sender so protocol behavior - which terminal signal fired, with what
// payload, how many times a sender was connected - can be asserted
// without hand-rolling receivers in every test.
//
// Example usage:
//
//	func TestMyStage(t *testing.T) {
//		rx := sendrtesting.NewMockReceiver[string](t)
//		op := stage.Connect(rx)
//		op.Start(context.Background())
//
//		rx.AssertValue(t, "expected")
//		rx.AssertSignalCount(t, 1)
//	}
package testing

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rocketfs/sendr"
)

// MockReceiver records every signal delivered to it and provides
// assertion helpers over the recording. It is safe for use from the
// goroutine a sender completes on.
type MockReceiver[T any] struct {
	t        *testing.T
	mu       sync.Mutex
	signals  []sendr.Signal
	values   []T
	errs     []error
	done     int
	blocking sendr.Blocking
}

// NewMockReceiver creates a recording receiver for testing.
func NewMockReceiver[T any](t *testing.T) *MockReceiver[T] {
	t.Helper()
	return &MockReceiver[T]{t: t, blocking: sendr.BlockingUnknown}
}

// WithBlocking configures the classification this receiver reports to
// pass-through queries from wrappers upstream of it.
func (m *MockReceiver[T]) WithBlocking(b sendr.Blocking) *MockReceiver[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocking = b
	return m
}

// AcceptValue implements sendr.Receiver.
func (m *MockReceiver[T]) AcceptValue(_ context.Context, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, sendr.SignalValue)
	m.values = append(m.values, value)
}

// AcceptError implements sendr.Receiver.
func (m *MockReceiver[T]) AcceptError(_ context.Context, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, sendr.SignalError)
	m.errs = append(m.errs, err)
}

// AcceptDone implements sendr.Receiver.
func (m *MockReceiver[T]) AcceptDone(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, sendr.SignalDone)
	m.done++
}

// Blocking answers the pass-through query with the configured
// classification.
func (m *MockReceiver[T]) Blocking() sendr.Blocking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blocking
}

// Signals returns the delivered signals in order.
func (m *MockReceiver[T]) Signals() []sendr.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sendr.Signal(nil), m.signals...)
}

// Values returns the delivered value payloads in order.
func (m *MockReceiver[T]) Values() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.values...)
}

// Errors returns the delivered errors in order.
func (m *MockReceiver[T]) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.errs...)
}

// DoneCount returns how many done signals were delivered.
func (m *MockReceiver[T]) DoneCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// AssertValue fails the test unless exactly one value signal was
// delivered and its payload deep-equals expected.
func (m *MockReceiver[T]) AssertValue(t *testing.T, expected T) {
	t.Helper()
	values := m.Values()
	if len(values) != 1 {
		t.Fatalf("expected exactly one value signal, got %d (signals: %v)", len(values), m.Signals())
	}
	if !reflect.DeepEqual(values[0], expected) {
		t.Fatalf("expected value %v, got %v", expected, values[0])
	}
}

// AssertError fails the test unless exactly one error signal was
// delivered and errors.Is matches it against target.
func (m *MockReceiver[T]) AssertError(t *testing.T, target error) {
	t.Helper()
	errs := m.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error signal, got %d (signals: %v)", len(errs), m.Signals())
	}
	if !errors.Is(errs[0], target) {
		t.Fatalf("expected error matching %v, got %v", target, errs[0])
	}
}

// AssertDone fails the test unless exactly one done signal was
// delivered.
func (m *MockReceiver[T]) AssertDone(t *testing.T) {
	t.Helper()
	if m.DoneCount() != 1 {
		t.Fatalf("expected exactly one done signal, got %d (signals: %v)", m.DoneCount(), m.Signals())
	}
}

// AssertSignalCount fails the test unless exactly n terminal signals
// were delivered in total.
func (m *MockReceiver[T]) AssertSignalCount(t *testing.T, n int) {
	t.Helper()
	if got := len(m.Signals()); got != n {
		t.Fatalf("expected %d signals, got %d (%v)", n, got, m.Signals())
	}
}

// mockMode selects which terminal signal a MockSender delivers.
type mockMode int

const (
	mockValue mockMode = iota
	mockError
	mockDone
)

// MockSender provides a configurable sender for testing combinators.
// It records every receiver connected to it, counts connections, and
// delivers one configured terminal signal per started operation.
type MockSender[T any] struct {
	t  *testing.T
	mu sync.Mutex

	name     sendr.Name
	mode     mockMode
	value    T
	err      error
	blocking sendr.Blocking

	consumed  bool
	receivers []sendr.Receiver[T]
}

// NewMockSender creates a mock sender that delivers the zero value of
// T until configured otherwise.
func NewMockSender[T any](t *testing.T, name sendr.Name) *MockSender[T] {
	t.Helper()
	return &MockSender[T]{t: t, name: name, blocking: sendr.BlockingAlwaysInline}
}

// WithValue configures the sender to complete with value.
func (m *MockSender[T]) WithValue(value T) *MockSender[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mockValue
	m.value = value
	return m
}

// WithError configures the sender to complete with err.
func (m *MockSender[T]) WithError(err error) *MockSender[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mockError
	m.err = err
	return m
}

// WithDone configures the sender to complete with done.
func (m *MockSender[T]) WithDone() *MockSender[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mockDone
	return m
}

// WithBlocking configures the classification this sender reports.
func (m *MockSender[T]) WithBlocking(b sendr.Blocking) *MockSender[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocking = b
	return m
}

// Connect implements sendr.Sender, recording the receiver.
func (m *MockSender[T]) Connect(r sendr.Receiver[T]) sendr.Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivers = append(m.receivers, r)
	return &mockOperation[T]{sender: m, receiver: r}
}

// ConnectOnce implements sendr.Sender. A second consuming connect
// fails with sendr.ErrStageConsumed, mirroring real single-shot
// senders.
func (m *MockSender[T]) ConnectOnce(r sendr.Receiver[T]) (sendr.Operation, error) {
	m.mu.Lock()
	if m.consumed {
		m.mu.Unlock()
		return nil, sendr.ErrStageConsumed
	}
	m.consumed = true
	m.mu.Unlock()
	return m.Connect(r), nil
}

// Blocking implements sendr.Sender.
func (m *MockSender[T]) Blocking() sendr.Blocking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blocking
}

// ValueShapes implements sendr.Sender.
func (m *MockSender[T]) ValueShapes() []sendr.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != mockValue {
		return nil
	}
	return []sendr.Shape{sendr.ShapeOf[T]()}
}

// ErrorShapes implements sendr.Sender.
func (m *MockSender[T]) ErrorShapes() []sendr.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != mockError {
		return nil
	}
	return []sendr.Shape{sendr.ShapeOf[error]()}
}

// Name implements sendr.Sender.
func (m *MockSender[T]) Name() sendr.Name {
	return m.name
}

// ConnectCount returns how many receivers have been connected.
func (m *MockSender[T]) ConnectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.receivers)
}

// LastReceiver returns the most recently connected receiver, or nil.
// Combinator tests use it to pose pass-through queries against the
// wrapper a stage built around the downstream receiver.
func (m *MockSender[T]) LastReceiver() sendr.Receiver[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.receivers) == 0 {
		return nil
	}
	return m.receivers[len(m.receivers)-1]
}

type mockOperation[T any] struct {
	sender   *MockSender[T]
	receiver sendr.Receiver[T]
	started  bool
	mu       sync.Mutex
}

// Start delivers the configured terminal signal inline. Starting twice
// panics, matching the protocol's contract for real operations.
func (o *mockOperation[T]) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		panic("sendr/testing: mock operation started twice")
	}
	o.started = true
	o.mu.Unlock()

	o.sender.mu.Lock()
	mode, value, err := o.sender.mode, o.sender.value, o.sender.err
	o.sender.mu.Unlock()

	switch mode {
	case mockError:
		o.receiver.AcceptError(ctx, err)
	case mockDone:
		o.receiver.AcceptDone(ctx)
	default:
		o.receiver.AcceptValue(ctx, value)
	}
}
