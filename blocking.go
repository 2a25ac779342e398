package sendr

// Blocking classifies how an operation completes relative to the call
// to Start. Combinators report exactly their predecessor's
// classification; wrapping a sender never blocks or un-blocks it.
type Blocking int

const (
	// BlockingUnknown means the sender makes no promise about where or
	// when it completes.
	BlockingUnknown Blocking = iota
	// BlockingNever means the sender always completes asynchronously,
	// on some other execution context, after Start returns.
	BlockingNever
	// BlockingAlways means the sender always completes on the calling
	// goroutine before Start returns, possibly after blocking it.
	BlockingAlways
	// BlockingAlwaysInline means the sender always completes on the
	// calling goroutine before Start returns, without blocking.
	BlockingAlwaysInline
)

// String returns a short human-readable classification name.
func (b Blocking) String() string {
	switch b {
	case BlockingNever:
		return "never"
	case BlockingAlways:
		return "always"
	case BlockingAlwaysInline:
		return "always_inline"
	default:
		return "unknown"
	}
}
