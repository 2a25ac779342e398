package sendr

// ContinuationVisitor is the optional diagnostic interface a receiver
// implements to expose the receiver it forwards signals to. Combinator
// receivers answer it by visiting their downstream receiver, which
// lets tooling reconstruct the chain of pending continuations for a
// live operation without the chain cooperating in any other way.
type ContinuationVisitor interface {
	VisitContinuations(visit func(interface{}))
}

// WalkContinuations visits every continuation reachable from node,
// depth-first. Nodes that do not implement ContinuationVisitor end
// their branch of the walk; node itself is not visited.
func WalkContinuations(node interface{}, visit func(interface{})) {
	v, ok := node.(ContinuationVisitor)
	if !ok {
		return
	}
	v.VisitContinuations(func(next interface{}) {
		visit(next)
		WalkContinuations(next, visit)
	})
}
