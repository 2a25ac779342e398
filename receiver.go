package sendr

import "context"

// funcReceiver adapts plain callbacks to the Receiver interface.
type funcReceiver[T any] struct {
	onValue func(context.Context, T)
	onError func(context.Context, error)
	onDone  func(context.Context)
}

// NewReceiver builds a Receiver from up to three callbacks, one per
// terminal signal. Nil callbacks are allowed and ignore their signal.
//
// Example:
//
//	r := sendr.NewReceiver(
//	    func(_ context.Context, n int) { fmt.Println("got", n) },
//	    func(_ context.Context, err error) { log.Print(err) },
//	    nil, // ignore done
//	)
func NewReceiver[T any](
	onValue func(context.Context, T),
	onError func(context.Context, error),
	onDone func(context.Context),
) Receiver[T] {
	return &funcReceiver[T]{
		onValue: onValue,
		onError: onError,
		onDone:  onDone,
	}
}

func (r *funcReceiver[T]) AcceptValue(ctx context.Context, value T) {
	if r.onValue != nil {
		r.onValue(ctx, value)
	}
}

func (r *funcReceiver[T]) AcceptError(ctx context.Context, err error) {
	if r.onError != nil {
		r.onError(ctx, err)
	}
}

func (r *funcReceiver[T]) AcceptDone(ctx context.Context) {
	if r.onDone != nil {
		r.onDone(ctx)
	}
}
